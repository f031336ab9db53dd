package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

// Input holds the raw strings a user typed. Empty means "not supplied".
type Input struct {
	X      string `param:"x" validate:"omitempty,numeric"`
	Y      string `param:"y" validate:"omitempty,numeric"`
	Z      string `param:"z" validate:"omitempty,numeric"`
	X2     string `param:"x2" validate:"omitempty,numeric"`
	Y2     string `param:"y2" validate:"omitempty,numeric"`
	Z2     string `param:"z2" validate:"omitempty,numeric"`
	DeltaH string `param:"dh" validate:"omitempty,numeric"`
	VX     string `param:"vx" validate:"omitempty,numeric"`
	VY     string `param:"vy" validate:"omitempty,numeric"`
	VZ     string `param:"vz" validate:"omitempty,numeric"`

	OriginCoord string `param:"origin-coord" validate:"omitempty,oneof=geo car plan"`
	DestCoord   string `param:"dest-coord" validate:"omitempty,oneof=geo car plan"`
	OriginZone  string `param:"origin-zone"`
	DestZone    string `param:"dest-zone"`
	OriginFrame string `param:"origin-frame"`
	DestFrame   string `param:"dest-frame"`

	Geoid      string `param:"geoid"`
	Conversion string `param:"convert"`
	Ellipsoid  string `param:"ellipsoid"`
	Grid       string `param:"grid"`

	Epoch     string `param:"epoch"`
	DestEpoch string `param:"dest-epoch"`

	HeightMode      string `param:"hmode" validate:"omitempty,toggle"`
	ThreeD          string `param:"3d" validate:"omitempty,toggle"`
	Inverse         string `param:"inverse" validate:"omitempty,toggle"`
	WestPositive    string `param:"westpos" validate:"omitempty,toggle"`
	EpochTransform  string `param:"epoch-trans" validate:"omitempty,toggle"`
	GravityEstimate string `param:"est-gravity" validate:"omitempty,toggle"`

	BatchFile    string `param:"file"`
	DownloadPath string `param:"download-path"`
}

var toggleValues = []string{"on", "off", "true", "false"}

// normalized lowercases the enumerated fields; catalog tokens are left as typed.
func (in Input) normalized() Input {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	in.OriginCoord = lower(in.OriginCoord)
	in.DestCoord = lower(in.DestCoord)
	in.HeightMode = lower(in.HeightMode)
	in.ThreeD = lower(in.ThreeD)
	in.Inverse = lower(in.Inverse)
	in.WestPositive = lower(in.WestPositive)
	in.EpochTransform = lower(in.EpochTransform)
	in.GravityEstimate = lower(in.GravityEstimate)
	return in
}

// isOn is true for "on" and "true". Callers pass normalized values.
func isOn(toggle string) bool {
	return toggle == "on" || toggle == "true"
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := f.Tag.Get("param")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("toggle", validateToggle)
	})
	return validate
}

func validateToggle(fl validator.FieldLevel) bool {
	v := strings.ToLower(fl.Field().String())
	for _, t := range toggleValues {
		if v == t {
			return true
		}
	}
	return false
}

// Validate runs the field level format checks. The first failing field is
// reported as a geoerr.ValidationError with reason InvalidValue.
func (in Input) Validate() error {
	err := getValidator().Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	return translateFieldError(fieldErrs[0])
}

func translateFieldError(fe validator.FieldError) *geoerr.ValidationError {
	field := fe.Field()
	value := fmt.Sprintf("%v", fe.Value())
	switch fe.Tag() {
	case "numeric":
		return geoerr.NewValidationError(geoerr.InvalidValue, field, value,
			"%s must be a number, got %q", field, value)
	case "oneof":
		err := geoerr.NewValidationError(geoerr.InvalidValue, field, value,
			"%s does not accept %q", field, value)
		err.Alternatives = strings.Fields(fe.Param())
		return err
	case "toggle":
		err := geoerr.NewValidationError(geoerr.InvalidValue, field, value,
			"%s must be a toggle, got %q", field, value)
		err.Alternatives = toggleValues
		return err
	}
	return geoerr.NewValidationError(geoerr.InvalidValue, field, value,
		"%s failed the %s check", field, fe.Tag())
}
