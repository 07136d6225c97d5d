package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/kinerja-cli/internal/golongan"
)

// ValidationResult is the preview verdict for a roster import. The
// caller decides whether errors block the import.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// rowInput is the validated shape of one roster line. Field order is the
// order messages are reported in.
type rowInput struct {
	Name string `validate:"required"`
	Gol  string `validate:"required,golongan"`
	NIP  string `validate:"omitempty,nip"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("golongan", func(fl validator.FieldLevel) bool {
		return golongan.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("nip", func(fl validator.FieldLevel) bool {
		return isNumeric(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	return v
}

// Validate checks every data line of text and reports problems in
// Indonesian, one message per failed field, prefixed by the line number.
func Validate(text string) ValidationResult {
	lines := dataLines(text)
	if len(lines) == 0 {
		return ValidationResult{Errors: []string{"Tidak ada data karyawan"}}
	}

	res := ValidationResult{Errors: []string{}}
	for _, l := range lines {
		r := splitRow(l.text)
		in := rowInput{Name: r.Name, Gol: r.Gol, NIP: r.NIP}
		if in.NIP == Placeholder {
			in.NIP = ""
		}
		err := validate.Struct(in)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			res.Errors = append(res.Errors, fmt.Sprintf("Baris %d: %v", l.number, err))
			continue
		}
		for _, fe := range verrs {
			res.Errors = append(res.Errors, fmt.Sprintf("Baris %d: %s", l.number, message(fe, in)))
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

func message(fe validator.FieldError, in rowInput) string {
	switch fe.Field() {
	case "Name":
		return "Nama tidak boleh kosong"
	case "Gol":
		if fe.Tag() == "required" {
			return "Golongan tidak boleh kosong"
		}
		return fmt.Sprintf("Format golongan tidak valid (%s)", in.Gol)
	case "NIP":
		return "NIP hanya boleh berisi angka"
	default:
		return fmt.Sprintf("%s tidak valid", fe.Field())
	}
}
