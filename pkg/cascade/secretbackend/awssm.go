package secretbackend

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
)

// AWSSecretsManager resolves "aws-sm:<secret-id>" and
// "aws-sm:<secret-id>#<json-key>" refs against AWS Secrets Manager,
// grounded on the teacher's credentials.SM adapter.
type AWSSecretsManager struct {
	client *secretsmanager.Client
}

func (a *AWSSecretsManager) Scheme() string { return "aws-sm" }

func (a *AWSSecretsManager) Resolve(ctx context.Context, ref Ref) (string, error) {
	if a.client == nil {
		cfg, err := awsConfig(ctx)
		if err != nil {
			return "", err
		}
		a.client = secretsmanager.NewFromConfig(cfg)
	}

	out, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref.Path),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load Secrets Manager secret")
	}
	if out.SecretString == nil {
		return "", nil
	}
	if ref.Key == "" {
		return *out.SecretString, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &fields); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal Secrets Manager secret")
	}
	return stringField(fields, ref.Key), nil
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
