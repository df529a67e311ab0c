package yamlast

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/adamvoss/yamlast/diag"
)

// options holds the settings shared by parsing, decoding and formatting.
type options struct {
	disallowComments    bool
	ignoreDanglingComma bool
	maxDepth            int
	messages            diag.Messages
	logger              *slog.Logger
	indent              int
}

// Option configures ParseJSON, ParseYAML, Decode and Format.
type Option func(*options) error

func newOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}

// DisallowComments makes ParseJSON report comments as errors.
func DisallowComments() Option {
	return func(o *options) error {
		o.disallowComments = true
		return nil
	}
}

// IgnoreDanglingComma makes ParseJSON accept a comma before a closing
// bracket or brace.
func IgnoreDanglingComma() Option {
	return func(o *options) error {
		o.ignoreDanglingComma = true
		return nil
	}
}

// MaxDepth returns an Option that limits how deeply collections may nest.
// Deeper collections are reported and skipped by the parsers, and rejected
// by Decode.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("yamlast: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// WithMessages replaces the diagnostic message texts. Codes missing from
// msgs keep their default text.
func WithMessages(msgs diag.Messages) Option {
	msgs = maps.Clone(msgs)
	return func(o *options) error {
		o.messages = msgs
		return nil
	}
}

// WithLogger sets the logger that receives debug records about each parse.
// Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return fmt.Errorf("yamlast: logger must not be nil")
		}
		o.logger = l
		return nil
	}
}

// Indent sets the number of spaces Format indents nested values with. Zero
// writes compact output.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("yamlast: indent must not be negative")
		}
		o.indent = n
		return nil
	}
}
