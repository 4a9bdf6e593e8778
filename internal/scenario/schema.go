package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// ErrSchema marks a document the scenario schema rejects.
var ErrSchema = errors.New("scenario does not match schema")

// checkSchema unifies a decoded YAML document with #Scenario and requires
// the result to be concrete.
func checkSchema(doc any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrSchema, firstSchemaError(err))
	}
	return nil
}

func firstSchemaError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	format, args := errs[0].Msg()
	msg := fmt.Sprintf(format, args...)
	if p := errs[0].Path(); len(p) > 0 {
		msg = strings.Join(p, ".") + ": " + msg
	}
	return msg
}
