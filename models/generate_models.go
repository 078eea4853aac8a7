package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Query helper generation and schema drift report.

With GENERATE_MODELS=true and STORE=postgres the server migrates the schema,
prints a report of columns present in the database but missing from the Go
structs, writes typed query helpers to ./generated and exits.
*/

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Project{}, &Tag{}, &ProjectTag{}, &ProjectLike{}}
}

// tableNames maps table names to the struct that backs them.
var tableNames = map[string]any{
	"users":         User{},
	"projects":      Project{},
	"tags":          Tag{},
	"project_tags":  ProjectTag{},
	"project_likes": ProjectLike{},
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	db = db.Session(&gorm.Session{
		Logger:                 db.Logger.LogMode(logger.Info),
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	report, err := ColumnMismatchReport(db)
	if err != nil {
		return err
	}
	for table, cols := range report {
		log.Warn().Str("table", table).Strs("columns", cols).Msg("columns not accounted for in model")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("model generation complete")
	return nil
}

// ColumnMismatchReport returns, per table, the database columns that no model
// field maps to. Tables that do not exist yet are skipped.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	for table, model := range tableNames {
		var columns []string
		err := db.Raw(`
			SELECT column_name
			FROM information_schema.columns
			WHERE table_name = ?
			AND table_schema = CURRENT_SCHEMA()
			ORDER BY ordinal_position
		`, table).Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("query columns for table %s: %w", table, err)
		}
		if len(columns) == 0 {
			continue
		}
		if missing := findColumnMismatches(columns, modelColumns(model)); len(missing) > 0 {
			report[table] = missing
		}
	}
	return report, nil
}

// modelColumns reads column names from the db struct tags, descending into
// embedded structs.
func modelColumns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, modelColumns(reflect.New(field.Type).Elem().Interface())...)
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if name != "" && name != "-" {
			cols = append(cols, name)
		}
	}
	return cols
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, f := range modelFields {
		known[f] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
