package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"statusline/internal/schema"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/httputil"
	"statusline/pkg/platform/validation"
)

type validateOptions struct {
	entity        string
	operation     string
	currentStatus string
	policy        string
	output        string
}

func validateCmd() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Run a payload through an entity contract",
		Long: `Validate reads a JSON or YAML payload from FILE ("-" for stdin) and runs
it through the create, update or list contract of an entity. The normalized
value is printed on success; the violations are printed and the command exits
non-zero otherwise.

With --current-status an update is also judged as a status change from that
status under --policy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.entity, "entity", "e", "", "entity: project, risk or decision")
	cmd.Flags().StringVar(&opts.operation, "op", string(schema.OperationCreate), "operation: create, update or list")
	cmd.Flags().StringVar(&opts.currentStatus, "current-status", "", "status of the stored record, for updates")
	cmd.Flags().StringVar(&opts.policy, "policy", string(domain.TransitionPolicyStrict), "transition policy: strict or permissive")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts validateOptions) error {
	policy, err := domain.ParseTransitionPolicy(opts.policy)
	if err != nil {
		return err
	}
	if opts.output != "json" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}
	payload, err := readPayload(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	value, err := schema.Validate(schema.Request{
		Entity:        schema.Entity(opts.entity),
		Operation:     schema.Operation(opts.operation),
		Payload:       payload,
		CurrentStatus: opts.currentStatus,
		Policy:        policy,
	})
	if err != nil {
		vs, ok := validation.From(err)
		if !ok {
			return err
		}
		resp := httputil.ErrorResponse{
			Error:       string(dErrors.CodeOf(err)),
			Description: err.Error(),
			Violations:  vs,
		}
		if werr := write(cmd.OutOrStdout(), opts.output, resp); werr != nil {
			return werr
		}
		return errRejected
	}
	return write(cmd.OutOrStdout(), opts.output, value)
}

// readPayload returns raw JSON, or a decoded map for .yaml and .yml files.
func readPayload(stdin io.Reader, path string) (any, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml payload: %w", err)
		}
		return doc, nil
	default:
		return raw, nil
	}
}

// write prints v in format. YAML output goes through the JSON encoding so
// field names match the wire format.
func write(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
