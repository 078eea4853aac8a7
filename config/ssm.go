package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParametersByPathAPI is the subset of the SSM client used to load config.
type ParametersByPathAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM reads every parameter below parameterPath and returns them keyed by
// the last path element, so /portfolio/prod/JWT_SECRET becomes JWT_SECRET.
func LoadSSM(ctx context.Context, client ParametersByPathAPI, parameterPath string) (map[string]string, error) {
	values := make(map[string]string)

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get parameters by path %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			values[path.Base(aws.ToString(p.Name))] = aws.ToString(p.Value)
		}
	}

	log.Info().Str("path", parameterPath).Int("count", len(values)).Msg("Loaded parameters from SSM")
	return values, nil
}

// WithSSM merges SSM parameters into c when SSM_PARAMETER_PATH is set.
// Environment variables win over SSM values.
func WithSSM(ctx context.Context, c map[string]string) error {
	parameterPath := GetString(c, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	values, err := LoadSSM(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
	if err != nil {
		return err
	}
	Merge(c, values)
	return nil
}
