package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/cyber924/taebaek/internal/domain"
)

const (
	msgInvalidURL  = "올바른 URL을 입력해주세요."
	msgFallback    = "입력값을 확인해주세요."
	msgSlugInUse   = "이미 사용 중인 URL 슬러그입니다."
	msgDongIDInUse = "이미 등록된 행정동 ID입니다."
)

// fieldMessages maps form field and failed rule to the message shown next to the field.
var fieldMessages = map[string]map[string]string{
	"dong_id":    {"required": "행정동 ID는 필수입니다."},
	"dong_name":  {"required": "행정동 이름은 필수입니다."},
	"place_name": {"required": "장소 이름은 필수입니다."},
	"type": {
		"required": "장소 유형은 필수입니다.",
		"oneof":    "장소 유형은 필수입니다.",
	},
	"image_url": {"url": msgInvalidURL},
	"title":     {"required": "제목은 필수입니다."},
	"slug": {
		"required": "URL 슬러그는 필수입니다.",
		"slug":     "영문 소문자, 숫자, 하이픈(-)만 사용할 수 있습니다.",
	},
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return domain.ValidSlug(fl.Field().String())
	})
	return v
}

// check runs the struct rules and converts failures to a ValidationError keeping the
// first failed rule per field.
func check(v *validator.Validate, schema any) error {
	err := v.Struct(schema)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		msg := fieldMessages[name][fe.Tag()]
		if msg == "" {
			msg = msgFallback
		}
		fields[name] = msg
	}
	return &ValidationError{Fields: fields}
}

// clean trims surrounding whitespace and normalises to NFC so composed and decomposed
// Hangul compare equal.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// optional converts empty input to nil.
func optional(s string) *string {
	c := clean(s)
	if c == "" {
		return nil
	}
	return &c
}

// splitTags splits comma separated tags, dropping blanks. No tags yields nil.
func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := clean(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// optionalText keeps multi-line bodies intact apart from outer whitespace.
func optionalText(s string) *string {
	c := norm.NFC.String(strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n")))
	if c == "" {
		return nil
	}
	return &c
}
