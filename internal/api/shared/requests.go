package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is shared across handlers; validator.Validate is safe for
// concurrent use and caches struct metadata between calls.
var validate = validator.New()

// DecodeJSON decodes the request body into v. Handlers treat any decode
// failure as a malformed request, so no error translation happens here.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates a decoded request DTO. A type carrying its
// own Validate method (the domain entities do) is asked directly;
// everything else goes through the struct tag validator, which is how
// the task creation payload is checked.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}
