package validation

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

const cantonTag = "canton"

// maxListed caps the number of offenders named in one error message
const maxListed = 10

// MemberValidator checks council members field by field and as a whole table
type MemberValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewMemberValidator creates a validator with the canton tag registered
func NewMemberValidator(logger *slog.Logger) *MemberValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation(cantonTag, isCanton); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", cantonTag, err))
	}

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &MemberValidator{
		validate: v,
		logger:   infrastructure.WithComponent(logger, "member_validator"),
	}
}

// Validate checks the struct tags of one member
func (v *MemberValidator) Validate(m domain.CouncilMember) error {
	msg, err := v.check(m)
	if err != nil {
		return errors.NewAppError(errors.ErrTypeValidation, "member validation failed", err)
	}
	if msg != "" {
		return errors.NewValidationError(msg)
	}
	return nil
}

// ValidateAll checks every member and reports all failures at once
func (v *MemberValidator) ValidateAll(ctx context.Context, members []domain.CouncilMember) error {
	var problems []string
	for _, m := range members {
		msg, err := v.check(m)
		if err != nil {
			return errors.NewAppError(errors.ErrTypeValidation, "member validation failed", err)
		}
		if msg != "" {
			problems = append(problems, msg)
		}
	}

	if len(problems) > 0 {
		v.logger.ErrorContext(ctx, "Member validation failed",
			slog.Int("invalid_members", len(problems)))
		return errors.NewValidationError(fmt.Sprintf("%d invalid members: %s", len(problems), joinLimited(problems))).
			WithContext("invalid_members", len(problems))
	}

	v.logger.DebugContext(ctx, "Members validated", slog.Int("members", len(members)))
	return nil
}

// check returns a description of all tag violations of m, or "" if it is valid
func (v *MemberValidator) check(m domain.CouncilMember) (string, error) {
	err := v.validate.Struct(m)
	if err == nil {
		return "", nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "", err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = formatValidationError(fe)
	}
	return fmt.Sprintf("%s: %s", memberLabel(m), strings.Join(msgs, "; ")), nil
}

// CheckActive verifies that exactly expected members have no retirement date.
// It must run before the retirement dates are filled in.
func (v *MemberValidator) CheckActive(ctx context.Context, members []domain.CouncilMember, expected int) error {
	var active []string
	for _, m := range members {
		if m.IsActive() {
			active = append(active, m.Name)
		}
	}

	if len(active) != expected {
		v.logger.ErrorContext(ctx, "Unexpected number of active members",
			slog.Int("expected", expected),
			slog.Int("actual", len(active)))
		return errors.NewValidationError(fmt.Sprintf("expected %d active members, found %d", expected, len(active))).
			WithContext("expected", expected).
			WithContext("actual", len(active)).
			WithContext("active", active)
	}

	v.logger.DebugContext(ctx, "Active members checked", slog.Int("active", len(active)))
	return nil
}

// CheckSanity verifies the date order of every member: a retirement date is
// set, nobody retired before being elected and nobody was elected before
// being born.
func (v *MemberValidator) CheckSanity(ctx context.Context, members []domain.CouncilMember) error {
	var missingRetired, retiredEarly, electedEarly []string
	for _, m := range members {
		if m.Retired == nil {
			missingRetired = append(missingRetired, m.Name)
		} else if m.Retired.Before(m.Elected) {
			retiredEarly = append(retiredEarly, m.Name)
		}
		if m.Elected.Before(m.DateOfBirth) {
			electedEarly = append(electedEarly, m.Name)
		}
	}

	var problems []string
	if len(missingRetired) > 0 {
		problems = append(problems, "retirement date missing for "+joinLimited(missingRetired))
	}
	if len(retiredEarly) > 0 {
		problems = append(problems, "retired before elected: "+joinLimited(retiredEarly))
	}
	if len(electedEarly) > 0 {
		problems = append(problems, "elected before born: "+joinLimited(electedEarly))
	}

	if len(problems) > 0 {
		v.logger.ErrorContext(ctx, "Sanity checks failed",
			slog.Int("missing_retired", len(missingRetired)),
			slog.Int("retired_before_elected", len(retiredEarly)),
			slog.Int("elected_before_born", len(electedEarly)))
		return errors.NewValidationError("sanity checks failed: " + strings.Join(problems, "; "))
	}

	v.logger.DebugContext(ctx, "Sanity checks passed", slog.Int("members", len(members)))
	return nil
}

func memberLabel(m domain.CouncilMember) string {
	if m.Name != "" {
		return m.Name
	}
	if m.Number != "" {
		return "member " + m.Number
	}
	return "unnamed member"
}

func joinLimited(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:maxListed], ", "), len(items)-maxListed)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "canton":
		return fmt.Sprintf("%s must be a Swiss canton code, got %q", field, err.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isCanton validates a two-letter canton code
func isCanton(fl validator.FieldLevel) bool {
	return domain.IsCanton(fl.Field().String())
}
