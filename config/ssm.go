package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSMParameters overlays decrypted values from Parameter Store onto the
// environment map. Parameter names are relative to path, so /showcase/prod/
// DB_PASSWORD becomes the DB_PASSWORD key. Values from SSM win over the
// process environment.
func LoadSSMParameters(ctx context.Context, config map[string]string, path string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := ssm.NewFromConfig(awsCfg)

	var nextToken *string
	loaded := 0
	for {
		out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(path),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return fmt.Errorf("failed to read parameters under %s: %w", path, err)
		}

		for _, parameter := range out.Parameters {
			if parameter.Name == nil || parameter.Value == nil {
				continue
			}
			key := strings.TrimPrefix(*parameter.Name, path)
			key = strings.TrimPrefix(key, "/")
			if key == "" {
				continue
			}
			config[key] = *parameter.Value
			loaded++
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	log.Info().Int("parameters", loaded).Str("path", path).Msg("Loaded configuration from SSM Parameter Store")
	return nil
}
