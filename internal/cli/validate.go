package cli

import (
	"errors"

	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/spf13/cobra"
)

var errWorkflowInvalid = errors.New("workflow is invalid")

func newValidateCmd(r *runtime) *cobra.Command {
	var req models.ValidationRequest

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a workflow locally with womtool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.WomtoolPath != "" {
				r.flags.Tools.WomtoolPath = req.WomtoolPath
			}

			services, err := r.services(false)
			if err != nil {
				return err
			}
			if err = r.cfg.RequireWomtool(); err != nil {
				return err
			}
			req.WomtoolPath = r.cfg.Tools.WomtoolPath

			result, err := services.ValidationService.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := r.output()
			if r.jsonOutput {
				if err = out.JSON(result); err != nil {
					return err
				}
			} else {
				out.Lines(result.Messages)
			}

			if !result.Valid {
				return errWorkflowInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.WorkflowPath, "wdl-file", "w", "", "Workflow file, local path or http(s) URL")
	cmd.Flags().StringVar(&req.WomtoolPath, "womtool-path", "", "Path to the womtool jar")
	cmd.Flags().StringVar(&req.DependenciesJSON, "dependencies-json", "", "JSON object mapping import names to file paths or URLs")
	_ = cmd.MarkFlagRequired("wdl-file")

	return cmd
}
