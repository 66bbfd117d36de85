package secretbackend

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/pkg/errors"
)

// AWSSystemsManager resolves "aws-ssm:<parameter-path>" and
// "aws-ssm:<parameter-path>#<json-key>" refs against SSM Parameter Store,
// grounded on the teacher's credentials.SSM adapter. Parameters are always
// fetched WithDecryption, since cascade has no per-ref option syntax for it.
type AWSSystemsManager struct {
	client *ssm.Client
}

func (a *AWSSystemsManager) Scheme() string { return "aws-ssm" }

func (a *AWSSystemsManager) Resolve(ctx context.Context, ref Ref) (string, error) {
	if a.client == nil {
		cfg, err := awsConfig(ctx)
		if err != nil {
			return "", err
		}
		a.client = ssm.NewFromConfig(cfg)
	}

	out, err := a.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(ref.Path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load SSM parameter")
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", nil
	}
	value := *out.Parameter.Value
	if ref.Key == "" {
		return value, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal SSM parameter")
	}
	return stringField(fields, strings.TrimSpace(ref.Key)), nil
}
