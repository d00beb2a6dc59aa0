package catalog

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report YAML names in errors so they match the catalog file.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// Validate checks the catalog structure and that no report key is used
// twice, counting aliases.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			path := strings.TrimPrefix(ve.Namespace(), "Catalog.")
			msgs = append(msgs, fmt.Sprintf("%s: %s", path, ve.Tag()))
		}
		return fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
	}

	for _, r := range c.Reports {
		seen := map[string]bool{}
		for _, e := range r.Entries {
			for _, k := range e.Keys() {
				if seen[k] {
					return fmt.Errorf("invalid catalog: report %s: duplicate key %q", r.Const, k)
				}
				seen[k] = true
			}
		}
	}
	return nil
}
