package secretbackend

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go/logging"
	"github.com/pkg/errors"
)

// awsConfig lazily loads the default AWS SDK config, mirroring the
// teacher's controllers/aws.Controller bootstrap.
func awsConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS configuration")
	}
	cfg.Logger = awsLogger{slog.New(slog.NewJSONHandler(io.Discard, nil))}
	return cfg, nil
}

type awsLogger struct {
	logger *slog.Logger
}

func (l awsLogger) Logf(classification logging.Classification, format string, args ...any) {
	l.logger.Debug(fmt.Sprintf("[%v] %s", classification, fmt.Sprintf(format, args...)))
}
