package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/config"
	"github.com/derekvan/canvas-markdown-tools/internal/credentials"
	"github.com/derekvan/canvas-markdown-tools/internal/markdown"
)

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// courseSettings is the resolved Canvas target: document frontmatter
// wins over environment configuration.
type courseSettings struct {
	URL      string
	CourseID string
}

func resolveSettings(cfg config.Config, meta markdown.Meta) (courseSettings, error) {
	s := courseSettings{URL: cfg.CanvasURL, CourseID: cfg.CanvasCourseID}
	if meta.CanvasURL != "" {
		s.URL = meta.CanvasURL
	}
	if meta.CourseID != "" {
		s.CourseID = meta.CourseID
	}
	if s.URL == "" {
		return s, errors.New("no Canvas URL: set canvas_url in the frontmatter or CANVAS_URL in the environment")
	}
	if s.CourseID == "" {
		return s, errors.New("no course id: set course_id in the frontmatter or CANVAS_COURSE_ID in the environment")
	}
	return s, nil
}

// resolveToken finds the API token: environment override first, then
// the keychain, prompting (and storing) when nothing is saved or a
// reset was requested.
func resolveToken(cmd *cobra.Command, cfg config.Config, s courseSettings, reset bool) (string, error) {
	if cfg.CanvasToken != "" && !reset {
		return cfg.CanvasToken, nil
	}

	if reset {
		if err := credentials.Forget(s.URL, s.CourseID); err != nil {
			return "", err
		}
	} else {
		token, err := credentials.Token(s.URL, s.CourseID)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, credentials.ErrNotFound) {
			return "", err
		}
	}

	token, err := prompt(cmd, fmt.Sprintf("Enter Canvas API token for %s: ", s.URL))
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("no token provided")
	}
	if err := credentials.Store(s.URL, s.CourseID, token); err != nil {
		return "", err
	}
	return token, nil
}

func newClient(s courseSettings, token string) *canvas.Client {
	return canvas.New(s.URL, s.CourseID, token)
}

func prompt(cmd *cobra.Command, question string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but "yes" or "y" declines.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	answer, err := prompt(cmd, question+" (yes/no): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}
