package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"jumuia/shared/base64"
	"jumuia/shared/constant"
	"jumuia/shared/failure"
	"jumuia/shared/phone"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const megabyte = 1 << 20

var validate *val.Validate

// rules are the tags registered on top of the validator built-ins.
var rules = map[string]val.Func{
	"empty":       func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
	"mimetypes":   mimetypes,
	"maxfilesize": maxFileSize,
	"kephone":     kenyanPhone,
}

// upload accepts both multipart files and base64 data URLs.
func upload(fl val.FieldLevel) (contentType string, size int) {
	switch file := fl.Field().Interface().(type) {
	case multipart.FileHeader:
		return file.Header.Get(constant.RequestHeaderContentType), int(file.Size)
	case string:
		return base64.GetContentType(file), base64.Size(file)
	default:
		return "", 0
	}
}

func mimetypes(fl val.FieldLevel) bool {
	contentType, _ := upload(fl)
	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(fl.Param()), contentType)
}

func maxFileSize(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	_, size := upload(fl)

	return float64(size) <= limit*megabyte
}

func kenyanPhone(fl val.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)

	return ok && phone.Valid(str)
}

// jsonName reports fields by their JSON key so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	// Money fields compare as numbers, so gt/gte/lte work on them.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			return amount.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes the JSON body in r into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
