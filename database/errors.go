package database

import (
	"fmt"

	"github.com/rpupo63/designer-portfolio-backend/errs"
)

func notFound(entity string, id int) error {
	return errs.NewNotFoundError(fmt.Sprintf("%s %d", entity, id))
}
