package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"formforge/internal/cache"
	"formforge/internal/grading"
	"formforge/internal/model"
	"formforge/internal/repository"
)

// FormService handles form CRUD and submission grading. Every write
// goes through normalize-then-validate so ids and order fields are in
// the deterministic state grading depends on before they hit the store.
type FormService struct {
	formRepo  repository.FormRepo
	formCache cache.FormCache
	validate  *validator.Validate
	log       *logrus.Logger
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, formCache cache.FormCache, log *logrus.Logger) *FormService {
	return &FormService{
		formRepo:  formRepo,
		formCache: formCache,
		validate:  validator.New(),
		log:       log,
	}
}

// Create validates, normalizes and persists a new form
func (s *FormService) Create(ctx context.Context, form *model.Form) (*model.Form, error) {
	if err := s.prepare(form); err != nil {
		return nil, err
	}

	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	form.ID = id

	s.cacheSet(ctx, form)
	return form, nil
}

// GetByID retrieves a form, trying the cache before the store. Cache
// failures are logged and ignored; a broken cache must not break reads.
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	if cached, err := s.formCache.Get(ctx, id); err != nil {
		s.log.WithError(err).WithField("formId", id).Warn("form cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, nil
	}

	s.cacheSet(ctx, form)
	return form, nil
}

// Update replaces an existing form wholesale. Returns (nil, nil) when
// no form with that id exists.
func (s *FormService) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	if err := s.prepare(form); err != nil {
		return nil, err
	}

	updated, err := s.formRepo.Update(ctx, form)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.cacheSet(ctx, updated)
	return updated, nil
}

// Delete removes a form. The bool reports whether it existed.
func (s *FormService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.formRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.formCache.Delete(ctx, id); err != nil {
		s.log.WithError(err).WithField("formId", id).Warn("form cache delete failed")
	}
	return deleted, nil
}

// List returns all forms, newest first
func (s *FormService) List(ctx context.Context) ([]*model.Form, error) {
	return s.formRepo.List(ctx)
}

// GradeSubmission loads a form and grades the submitted answers
// against it. Returns (nil, nil) when the form does not exist. Grading
// itself cannot fail: malformed answers degrade inside the result.
func (s *FormService) GradeSubmission(ctx context.Context, formID string, answers map[int]model.AnswerValue) (*model.FormGrade, error) {
	form, err := s.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, nil
	}

	grade := grading.GradeForm(form, answers)
	return &grade, nil
}

// prepare runs the normalize-then-validate pipeline shared by Create
// and Update. Normalization runs first so synthesized cat_/item_ ids
// are in place before the answer key's references are checked.
func (s *FormService) prepare(form *model.Form) error {
	form.Normalize()

	if err := s.validate.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &model.ValidationError{
				Field:  strings.ToLower(fe.Field()),
				Reason: "failed validation rule " + fe.Tag(),
			}
		}
		return err
	}

	return form.Validate()
}

func (s *FormService) cacheSet(ctx context.Context, form *model.Form) {
	if err := s.formCache.Set(ctx, form); err != nil {
		s.log.WithError(err).WithField("formId", form.ID).Warn("form cache write failed")
	}
}
