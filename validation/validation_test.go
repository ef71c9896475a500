package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/wirekit/errors"
)

type containerConfig struct {
	Strategy   string   `mapstructure:"strategy" validate:"required,oneof=scan eager"`
	Namespaces []string `mapstructure:"namespaces" validate:"dive,required"`
}

type telemetryConfig struct {
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

type BaseConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

type appConfig struct {
	BaseConfig `mapstructure:",squash"`

	Container containerConfig `mapstructure:"container"`
	Telemetry telemetryConfig `mapstructure:"telemetry"`
}

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "wiredemo")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"scan", "eager"}

	v := New().OneOf("strategy", "scan", allowed)
	if v.HasErrors() {
		t.Error("expected no errors for allowed value")
	}

	v = New().OneOf("strategy", "", allowed)
	if v.HasErrors() {
		t.Error("expected empty value to be skipped")
	}

	v = New().OneOf("strategy", "lazy", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "scan, eager") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(false, "container.namespaces", "is required for scan")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected %s, got %s", errors.ErrCodeInvalidConfig, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "container.namespaces: is required for scan") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestValidatorValidateEmpty(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStructValidateValid(t *testing.T) {
	cfg := appConfig{
		BaseConfig: BaseConfig{Name: "wiredemo"},
		Container:  containerConfig{Strategy: "scan", Namespaces: []string{"shop"}},
		Telemetry:  telemetryConfig{SampleRate: 0.5},
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	cfg := appConfig{
		Container: containerConfig{Strategy: "lazy", Namespaces: []string{""}},
		Telemetry: telemetryConfig{SampleRate: 2},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}

	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		t.Fatalf("expected field errors in details, got %T", appErr.Details["fields"])
	}

	got := make(map[string]string)
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"name":                    "is required",
		"container.strategy":      "must be one of: scan eager",
		"container.namespaces[0]": "is required",
		"telemetry.sample_rate":   "must be less than or equal to 1",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestValidatorMerge(t *testing.T) {
	v := New().Merge(Validate(appConfig{Container: containerConfig{Strategy: "scan"}}))
	v.Custom(false, "container.namespaces", "is required for scan")

	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d: %+v", len(v.Errors()), v.Errors())
	}
	if v.Errors()[0].Field != "name" {
		t.Errorf("expected merged field 'name', got %q", v.Errors()[0].Field)
	}
}
