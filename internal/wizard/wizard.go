package wizard

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-desk/internal/applications"
	"github.com/jonathan/hiring-desk/internal/logging"
	"github.com/jonathan/hiring-desk/internal/types"
)

// Verification code settings.
const (
	CodeTTL     = 10 * time.Minute
	MaxAttempts = 5
)

// Verification messages.
const (
	msgCodeFormat   = "Please enter a valid 6-digit code"
	msgCodeInvalid  = "Invalid verification code. Please try again."
	msgCodeExpired  = "Verification code expired. Please request a new one."
	msgCodeExceeded = "Too many attempts. Please request a new code."
)

// Applications is the part of the intake service the wizard drives
type Applications interface {
	Create(ctx context.Context, req *types.ApplicationCreateRequest, file applications.Upload) (*types.ApplicationResponse, error)
	AttachMedia(ctx context.Context, id uuid.UUID, media *types.MediaUpdateRequest) (*types.ApplicationResponse, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

// Result is the wizard's answer to every step
type Result struct {
	SessionID     string        `json:"session_id"`
	Step          Step          `json:"step"`
	Next          string        `json:"next,omitempty"`
	ApplicationID string        `json:"application_id,omitempty"`
	Email         string        `json:"email,omitempty"`
	CodeSent      bool          `json:"code_sent,omitempty"`
	CodeExpiresAt *time.Time    `json:"code_expires_at,omitempty"`
	Page1         *PersonalInfo `json:"applicant_page_1_data,omitempty"`
	Page2         *MediaLinks   `json:"applicant_page_2_data,omitempty"`
}

// Service runs the wizard state machine
type Service struct {
	store  Store
	apps   Applications
	mailer Mailer
	now    func() time.Time
	code   func() (string, error)
	logger *zap.Logger
}

// NewService creates a wizard service.
func NewService(store Store, apps Applications, mailer Mailer, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		apps:   apps,
		mailer: mailer,
		now:    time.Now,
		code:   randomCode,
		logger: logging.Component(logger, "wizard"),
	}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	return s.store.Load(ctx, id)
}

func result(sess *Session) *Result {
	r := &Result{SessionID: sess.ID, Step: sess.Step(), Page1: sess.Page1, Page2: sess.Page2}
	if sess.ApplicationID != nil {
		r.ApplicationID = sess.ApplicationID.String()
	}
	if sess.Page1 != nil {
		r.Email = sess.Page1.Email
	}
	if sess.Code != "" {
		r.CodeSent = true
		exp := sess.CodeExpiresAt
		r.CodeExpiresAt = &exp
	}
	return r
}

// EnterPersonalStep returns the stored page 1 data, if any. A missing session
// is not an error: the applicant simply starts fresh.
func (s *Service) EnterPersonalStep(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &Result{Step: StepPage1}, nil
	}
	return result(sess), nil
}

// SubmitPersonalInfo validates page 1 and creates the application. The session
// is only written once the application exists.
func (s *Service) SubmitPersonalInfo(ctx context.Context, sessionID string, info PersonalInfo, resume *applications.Upload) (*Result, error) {
	info.Normalize()
	var filename string
	hasResume := resume != nil && len(resume.Data) > 0
	if hasResume {
		filename = resume.Filename
	}
	if errs := info.Validate(filename, hasResume); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs, Values: info}
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &Session{ID: uuid.NewString()}
	}

	resp, err := s.apps.Create(ctx, &types.ApplicationCreateRequest{
		Name:           info.FullName,
		Email:          info.Email,
		Phone:          info.PhoneNumber,
		GitHubURL:      info.GitHubProjectURLs[0],
		Focus:          info.JobArea,
		Location:       info.Location,
		Availability:   info.Availability,
		ExpectedSalary: info.ExpectedSalary,
	}, *resume)
	if err != nil {
		var verr *applications.ValidationError
		if errors.As(err, &verr) {
			return nil, &ValidationErrors{Fields: intakeFieldError(verr), Values: info}
		}
		s.logger.Error("application create failed", zap.Error(err))
		return nil, &ErrUpstream{Err: err, Values: info}
	}
	appID, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, &ErrUpstream{Err: err, Values: info}
	}

	info.ResumeFilename = filename
	sess.Page1 = &info
	sess.ApplicationID = &appID
	sess.Page2 = nil
	sess.clearCode()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("personal info submitted",
		zap.String(logging.FieldSession, sess.ID),
		zap.String(logging.FieldApplicationID, resp.ID))
	r := result(sess)
	r.Next = PathPage2
	return r, nil
}

func (s *Service) requirePage1(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step() == StepPage1 {
		return nil, &ErrRedirect{Location: PathPage1}
	}
	return sess, nil
}

func (s *Service) requirePage2(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.requirePage1(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Page2 == nil {
		return nil, &ErrRedirect{Location: PathPage1}
	}
	return sess, nil
}

// EnterMediaStep guards page 2.
func (s *Service) EnterMediaStep(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := s.requirePage1(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return result(sess), nil
}

// SubmitMedia validates page 2 and attaches the first video and website to
// the application.
func (s *Service) SubmitMedia(ctx context.Context, sessionID string, links MediaLinks) (*Result, error) {
	sess, err := s.requirePage1(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	links.Normalize()
	if errs := links.Validate(); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs, Values: links}
	}

	site := links.Websites[0]
	viewable := !site.RequiresLogin
	media := &types.MediaUpdateRequest{
		VideoURL:            links.YouTubeURLs[0],
		DeployURL:           &site.URL,
		CanViewWithoutLogin: &viewable,
	}
	if _, err := s.apps.AttachMedia(ctx, *sess.ApplicationID, media); err != nil {
		var nf *applications.NotFoundError
		if errors.As(err, &nf) {
			if derr := s.store.Delete(ctx, sess.ID); derr != nil {
				s.logger.Warn("failed to drop stale session", zap.Error(derr))
			}
			return nil, &ErrRedirect{Location: PathPage1}
		}
		s.logger.Error("attach media failed", zap.Error(err))
		return nil, &ErrUpstream{Err: err, Values: links}
	}

	sess.Page2 = &links
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	r := result(sess)
	r.Next = PathVerifyEmail
	return r, nil
}

// EnterVerifyStep guards the verification page.
func (s *Service) EnterVerifyStep(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := s.requirePage2(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return result(sess), nil
}

// SendCode issues a fresh code to the page 1 email and resets the attempt count.
func (s *Service) SendCode(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := s.requirePage2(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	code, err := s.code()
	if err != nil {
		return nil, err
	}
	sess.Code = code
	sess.CodeExpiresAt = s.now().Add(CodeTTL)
	sess.Attempts = 0
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.mailer.SendVerificationCode(ctx, sess.Page1.Email, code); err != nil {
		s.logger.Error("failed to send verification code", zap.Error(err))
		return nil, &ErrUpstream{Err: err}
	}
	return result(sess), nil
}

// Verify checks code. Success marks the email verified and ends the session.
func (s *Service) Verify(ctx context.Context, sessionID, code string) (*Result, error) {
	sess, err := s.requirePage2(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !codePattern.MatchString(code) {
		return nil, codeError(msgCodeFormat)
	}
	if sess.Code == "" || s.now().After(sess.CodeExpiresAt) {
		return nil, codeError(msgCodeExpired)
	}
	if sess.Attempts >= MaxAttempts {
		return nil, codeError(msgCodeExceeded)
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(sess.Code)) != 1 {
		sess.Attempts++
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, err
		}
		if sess.Attempts >= MaxAttempts {
			return nil, codeError(msgCodeExceeded)
		}
		return nil, codeError(msgCodeInvalid)
	}

	if err := s.apps.MarkEmailVerified(ctx, *sess.ApplicationID); err != nil {
		s.logger.Error("failed to mark email verified", zap.Error(err))
		return nil, &ErrUpstream{Err: err}
	}
	if err := s.store.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.String(logging.FieldSession, sess.ID),
		zap.String(logging.FieldApplicationID, sess.ApplicationID.String()))
	return &Result{
		SessionID:     sess.ID,
		Step:          StepSubmitted,
		ApplicationID: sess.ApplicationID.String(),
	}, nil
}

func codeError(msg string) error {
	return &ValidationErrors{Fields: map[string]string{"code": msg}}
}
