package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// healthReport is the JSON form of the health command output.
type healthReport struct {
	Healthy    bool `json:"healthy"`
	Subsystems any  `json:"subsystems"`
}

func newHealthCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is reachable and its subsystems are ok",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflows, err := r.workflows()
			if err != nil {
				return err
			}

			health, err := workflows.Health(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(health))
			for name := range health {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, len(names))
			for i, name := range names {
				state := successStyle.Render("ok")
				if !health[name].OK {
					state = failureStyle.Render("failing")
				}
				rows[i] = []string{name, state, strings.Join(health[name].Messages, "; ")}
			}

			return r.output().Print(
				[]string{"SUBSYSTEM", "STATE", "MESSAGES"},
				rows,
				healthReport{Healthy: health.IsHealthy(), Subsystems: health},
			)
		},
	}
}

// versionReport is the JSON form of the version command output.
type versionReport struct {
	Client struct {
		Version string `json:"version"`
		Date    string `json:"date"`
		Commit  string `json:"commit"`
	} `json:"client"`
	Server string `json:"server"`
}

func newVersionCmd(r *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the client build and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflows, err := r.workflows()
			if err != nil {
				return err
			}

			version, err := workflows.Version(cmd.Context())
			if err != nil {
				return err
			}

			var report versionReport
			report.Client.Version = r.info.BuildVersion()
			report.Client.Date = r.info.BuildDate()
			report.Client.Commit = r.info.BuildCommit()
			report.Server = version.String()

			return r.output().Print(
				[]string{"COMPONENT", "VERSION", "DATE", "COMMIT"},
				[][]string{
					{"client", report.Client.Version, report.Client.Date, report.Client.Commit},
					{"server", report.Server, "-", "-"},
				},
				report,
			)
		},
	}
}
