package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/broadinstitute/cromwell-tools/internal/validators"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/spf13/cobra"
)

var idStatusHeaders = []string{"ID", "STATUS"}

func idStatusRows(items ...models.WorkflowIDAndStatus) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item.ID, Status(item.Status)}
	}
	return rows
}

func newSubmitCmd(r *runtime) *cobra.Command {
	var files models.SubmissionFiles
	var extraInputs []string
	var labels []string
	var copyID bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			services, err := r.services(true)
			if err != nil {
				return err
			}

			files.Inputs = append(files.Inputs, extraInputs...)

			req, err := services.ManifestService.Prepare(ctx, files)
			if err != nil {
				return err
			}
			if req.Labels, err = mergeLabels(req.Labels, labels); err != nil {
				return err
			}

			submitted, err := services.WorkflowService.Submit(ctx, req)
			if err != nil {
				return err
			}

			out := r.output()
			out.Success(fmt.Sprintf("Workflow submitted: %s", submitted.ID))
			if copyID {
				if err := r.copyToClipboard(submitted.ID); err != nil {
					r.log.Warn().Err(err).Msg("could not copy workflow id to clipboard")
				}
			}
			return out.Print(idStatusHeaders, idStatusRows(submitted), submitted)
		},
	}

	cmd.Flags().StringVarP(&files.WorkflowSource, "wdl-file", "w", "", "Workflow file, local path or http(s) URL")
	cmd.Flags().StringArrayVarP(&files.Inputs, "inputs-file", "i", nil, "Inputs JSON or YAML file (repeatable)")
	cmd.Flags().StringArrayVar(&extraInputs, "inputs-file2", nil, "Additional inputs file, merged by the server after --inputs-file")
	cmd.Flags().StringVarP(&files.DependenciesZip, "zip-file", "d", "", "Zip archive of imported workflow files")
	cmd.Flags().StringArrayVar(&files.Dependencies, "dependency", nil, "Imported workflow file (repeatable, packed into one zip; not with --zip-file)")
	cmd.Flags().StringVarP(&files.Options, "options-file", "o", "", "Workflow options JSON or YAML file")
	cmd.Flags().StringVar(&files.Labels, "label-file", "", "Labels JSON or YAML file")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Label as KEY=VALUE (repeatable, overrides --label-file)")
	cmd.Flags().StringVar(&files.CollectionName, "collection-name", "", "Collection the workflow belongs to")
	cmd.Flags().BoolVar(&files.OnHold, "on-hold", false, "Submit the workflow in On Hold status")
	cmd.Flags().BoolVar(&files.ValidateLabels, "validate-labels", false, "Check label format before submitting")
	cmd.Flags().BoolVar(&copyID, "copy-id", false, "Copy the new workflow id to the clipboard")
	_ = cmd.MarkFlagRequired("wdl-file")

	return cmd
}

// mergeLabels adds KEY=VALUE pairs to the labels document.
func mergeLabels(doc models.Document, pairs []string) (models.Document, error) {
	if len(pairs) == 0 {
		return doc, nil
	}

	labels := map[string]any{}
	if !doc.IsEmpty() {
		if err := json.Unmarshal(doc.Content, &labels); err != nil {
			return models.Document{}, fmt.Errorf("%w: %v", validators.ErrInvalidLabels, err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return models.Document{}, fmt.Errorf("%w: invalid label %q, expected KEY=VALUE", validators.ErrInvalidLabels, pair)
		}
		labels[key] = value
	}

	content, err := json.Marshal(labels)
	if err != nil {
		return models.Document{}, fmt.Errorf("error encoding labels: %w", err)
	}
	name := doc.Name
	if name == "" {
		name = "labels.json"
	}
	return models.Document{Name: name, Content: content}, nil
}

// newWorkflowCallCmd builds the commands that take one workflow id and
// print its new status.
func newWorkflowCallCmd(
	r *runtime,
	use, short string,
	call func(cmd *cobra.Command, id string) (models.WorkflowIDAndStatus, error),
) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := call(cmd, id)
			if err != nil {
				return err
			}
			return r.output().Print(idStatusHeaders, idStatusRows(result), result)
		},
	}

	cmd.Flags().StringVarP(&id, "uuid", "u", "", "Workflow id")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}

func newStatusCmd(r *runtime) *cobra.Command {
	return newWorkflowCallCmd(r, "status", "Show the status of a workflow",
		func(cmd *cobra.Command, id string) (models.WorkflowIDAndStatus, error) {
			workflows, err := r.workflows()
			if err != nil {
				return models.WorkflowIDAndStatus{}, err
			}
			return workflows.Status(cmd.Context(), id)
		})
}

func newAbortCmd(r *runtime) *cobra.Command {
	return newWorkflowCallCmd(r, "abort", "Abort a running workflow",
		func(cmd *cobra.Command, id string) (models.WorkflowIDAndStatus, error) {
			workflows, err := r.workflows()
			if err != nil {
				return models.WorkflowIDAndStatus{}, err
			}
			return workflows.Abort(cmd.Context(), id)
		})
}

func newReleaseHoldCmd(r *runtime) *cobra.Command {
	return newWorkflowCallCmd(r, "release_hold", "Release a workflow submitted on hold",
		func(cmd *cobra.Command, id string) (models.WorkflowIDAndStatus, error) {
			workflows, err := r.workflows()
			if err != nil {
				return models.WorkflowIDAndStatus{}, err
			}
			return workflows.ReleaseHold(cmd.Context(), id)
		})
}

func newMetadataCmd(r *runtime) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print the metadata of a workflow as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workflows, err := r.workflows()
			if err != nil {
				return err
			}

			metadata, err := workflows.Metadata(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.output().Raw(metadata)
		},
	}

	cmd.Flags().StringVarP(&id, "uuid", "u", "", "Workflow id")
	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}

// queryResult holds the columns shown for one query result.
type queryResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Submission string `json:"submission"`
}

func newQueryCmd(r *runtime) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]models.QueryParam, 0, len(filters))
			for _, filter := range filters {
				key, value, ok := strings.Cut(filter, "=")
				if !ok || key == "" {
					return fmt.Errorf("%w: invalid filter %q, expected KEY=VALUE", validators.ErrValidationInput, filter)
				}
				params = append(params, models.QueryParam{key: value})
			}

			workflows, err := r.workflows()
			if err != nil {
				return err
			}

			resp, err := workflows.Query(cmd.Context(), params)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(resp.Results))
			for _, raw := range resp.Results {
				var res queryResult
				if err := json.Unmarshal(raw, &res); err != nil {
					continue
				}
				rows = append(rows, []string{res.ID, res.Name, Status(models.WorkflowStatus(res.Status)), res.Submission})
			}
			return r.output().Print([]string{"ID", "NAME", "STATUS", "SUBMITTED"}, rows, resp)
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Query filter as KEY=VALUE (repeatable, e.g. status=Running)")

	return cmd
}
