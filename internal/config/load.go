package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
)

// hclConfigFile is the top-level structure of a line configuration file.
type hclConfigFile struct {
	Line    *hclLineBlock     `hcl:"line,block"`
	Devices []*hclDeviceBlock `hcl:"device,block"`
}

// Attributes stay hcl.Expression so their types can be validated and
// converted through cty rather than trusting raw decode results.
type hclLineBlock struct {
	SequenceFile   hcl.Expression `hcl:"sequence_file,optional"`
	InitialCommand hcl.Expression `hcl:"initial_command,optional"`
	PollInterval   hcl.Expression `hcl:"poll_interval,optional"`
}

type hclDeviceBlock struct {
	Name               string         `hcl:"name,label"`
	Endpoint           hcl.Expression `hcl:"endpoint"`
	Namespace          hcl.Expression `hcl:"namespace,optional"`
	Timeout            hcl.Expression `hcl:"timeout,optional"`
	InsecureSkipVerify hcl.Expression `hcl:"insecure_skip_verify,optional"`
}

// Load parses the HCL file at path into a Model, starting from Default() so
// omitted attributes keep their defaults.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading line configuration.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed hclConfigFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	model := Default()

	if parsed.Line != nil {
		if err := decodeString(parsed.Line.SequenceFile, "sequence_file", &model.Line.SequenceFile); err != nil {
			return nil, err
		}
		if err := decodeString(parsed.Line.InitialCommand, "initial_command", &model.Line.InitialCommand); err != nil {
			return nil, err
		}
		if err := decodeDuration(parsed.Line.PollInterval, "poll_interval", &model.Line.PollInterval); err != nil {
			return nil, err
		}
	}

	for _, block := range parsed.Devices {
		dev := Device{Name: block.Name}
		if err := decodeString(block.Endpoint, "endpoint", &dev.Endpoint); err != nil {
			return nil, fmt.Errorf("device %q: %w", block.Name, err)
		}
		if err := decodeString(block.Namespace, "namespace", &dev.Namespace); err != nil {
			return nil, fmt.Errorf("device %q: %w", block.Name, err)
		}
		if err := decodeDuration(block.Timeout, "timeout", &dev.Timeout); err != nil {
			return nil, fmt.Errorf("device %q: %w", block.Name, err)
		}
		if err := decodeBool(block.InsecureSkipVerify, "insecure_skip_verify", &dev.InsecureSkipVerify); err != nil {
			return nil, fmt.Errorf("device %q: %w", block.Name, err)
		}
		model.Devices = append(model.Devices, dev)
	}

	logger.Debug("Line configuration loaded.", "devices", len(model.Devices))
	return model, nil
}

// decodeString evaluates expr and stores its string value in target. A nil
// or absent expression leaves target untouched.
func decodeString(expr hcl.Expression, name string, target *string) error {
	val, ok, err := evaluate(expr, name, cty.String)
	if err != nil || !ok {
		return err
	}
	return gocty.FromCtyValue(val, target)
}

// decodeBool is decodeString for booleans.
func decodeBool(expr hcl.Expression, name string, target *bool) error {
	val, ok, err := evaluate(expr, name, cty.Bool)
	if err != nil || !ok {
		return err
	}
	return gocty.FromCtyValue(val, target)
}

// decodeDuration evaluates expr as a string and parses it as a Go duration.
func decodeDuration(expr hcl.Expression, name string, target *time.Duration) error {
	var raw string
	if err := decodeString(expr, name, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("attribute %q is not a valid duration: %w", name, err)
	}
	*target = d
	return nil
}

// evaluate resolves expr to a concrete value of the wanted cty type. The
// second return is false when the attribute was simply absent.
func evaluate(expr hcl.Expression, name string, want cty.Type) (cty.Value, bool, error) {
	if expr == nil {
		return cty.NilVal, false, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, false, fmt.Errorf("failed to evaluate attribute %q: %w", name, diags)
	}
	if val.IsNull() {
		return cty.NilVal, false, nil
	}
	val, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, false, fmt.Errorf("attribute %q must be %s: %w", name, want.FriendlyName(), err)
	}
	return val, true, nil
}
