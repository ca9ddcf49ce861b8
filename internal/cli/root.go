package cli

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/broadinstitute/cromwell-tools/internal/adapter"
	"github.com/broadinstitute/cromwell-tools/internal/app"
	"github.com/broadinstitute/cromwell-tools/internal/auth"
	"github.com/broadinstitute/cromwell-tools/internal/config"
	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/service"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/spf13/cobra"
)

// ServicesFactory builds the services for one command run. withServer is
// false for commands that never contact the workflow server.
type ServicesFactory func(cfg *config.ClientConfig, withServer bool, log *logger.Logger) (*service.Services, error)

// Option customizes the command tree.
type Option func(*runtime)

// WithOutput redirects command output and messages.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *runtime) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithClipboard replaces the system clipboard used by submit --copy-id.
func WithClipboard(copyFn func(string) error) Option {
	return func(r *runtime) {
		r.copyToClipboard = copyFn
	}
}

// WithServicesFactory replaces the default service wiring.
func WithServicesFactory(factory ServicesFactory) Option {
	return func(r *runtime) {
		r.newServices = factory
	}
}

// runtime holds state shared by the commands of one invocation.
type runtime struct {
	info       models.AppBuildInfo
	flags      *config.StructuredConfig
	jsonOutput bool

	stdout          io.Writer
	stderr          io.Writer
	copyToClipboard func(string) error
	newServices     ServicesFactory

	cfg *config.ClientConfig
	log *logger.Logger
}

// NewRootCmd builds the cromwell-tools command tree.
func NewRootCmd(info models.AppBuildInfo, opts ...Option) *cobra.Command {
	r := &runtime{
		info:            info,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		copyToClipboard: clipboard.WriteAll,
		newServices:     NewServices,
	}
	for _, opt := range opts {
		opt(r)
	}

	rootCmd := &cobra.Command{
		Use:           "cromwell-tools",
		Short:         "Submit, monitor and manage workflows on a Cromwell server",
		Version:       info.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(r.stdout)
	rootCmd.SetErr(r.stderr)

	r.flags = config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolVar(&r.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newSubmitCmd(r),
		newWaitCmd(r),
		newStatusCmd(r),
		newAbortCmd(r),
		newReleaseHoldCmd(r),
		newMetadataCmd(r),
		newQueryCmd(r),
		newHealthCmd(r),
		newVersionCmd(r),
		newValidateCmd(r),
	)

	return rootCmd
}

// Execute runs the command tree with args and returns the process exit
// code. Errors are printed to stderr with the hint of their class.
func Execute(ctx context.Context, info models.AppBuildInfo, args []string, opts ...Option) int {
	rootCmd := NewRootCmd(info, opts...)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return app.ExitOK
	}

	failure := app.Describe(err)
	out := NewOutput(false, rootCmd.OutOrStdout(), rootCmd.ErrOrStderr())
	out.Error(err, failure.Hint)
	return failure.Code
}

// loadConfig loads the configuration once. Commands call it from RunE so their
// own flags are applied first.
func (r *runtime) loadConfig() (*config.ClientConfig, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}

	cfg, err := config.GetClientConfig(r.flags)
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	r.log = logger.NewClientLogger("cli", cfg.LogLevel, r.stderr)
	return cfg, nil
}

// services loads the configuration and builds the services.
func (r *runtime) services(withServer bool) (*service.Services, error) {
	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}
	if withServer && cfg.Auth.SecretsFile == "" {
		if err = cfg.RequireServer(); err != nil {
			return nil, err
		}
	}
	return r.newServices(cfg, withServer, r.log)
}

func (r *runtime) workflows() (service.WorkflowService, error) {
	services, err := r.services(true)
	if err != nil {
		return nil, err
	}
	return services.WorkflowService, nil
}

func (r *runtime) output() *Output {
	return NewOutput(r.jsonOutput, r.stdout, r.stderr)
}

// NewServices is the default ServicesFactory. It resolves credentials and
// connects the HTTP adapter when withServer is set.
func NewServices(cfg *config.ClientConfig, withServer bool, log *logger.Logger) (*service.Services, error) {
	httpClient := utils.NewHTTPClient(cfg.Server.RequestTimeout)

	var workflowAdapter adapter.WorkflowAdapter
	if withServer {
		session, err := auth.Resolve(auth.Inputs{
			URL:               cfg.Server.URL,
			Username:          cfg.Auth.Username,
			Password:          cfg.Auth.Password,
			SecretsFile:       cfg.Auth.SecretsFile,
			ServiceAccountKey: cfg.Auth.ServiceAccountKey,
			Token:             cfg.Auth.Token,
			Managed:           cfg.Auth.Managed,
		}, auth.WithHTTPClient(httpClient), auth.WithLogger(log))
		if err != nil {
			return nil, err
		}
		workflowAdapter = adapter.NewHTTPWorkflowAdapter(session, cfg.Server.RequestTimeout, log)
	}

	return service.NewServices(workflowAdapter, httpClient, cfg.Tools.JavaPath, log), nil
}
