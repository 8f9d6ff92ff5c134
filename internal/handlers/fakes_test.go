package handlers

import (
	"context"
	"time"

	"smarthire/internal/models"
)

type fakeAuthService struct {
	startSignup   func(name, email, password string) (string, time.Time, error)
	verifySignup  func(token, email, code string) error
	resendSignup  func(token, email string) (time.Time, error)
	startReset    func(email string) (string, time.Time, error)
	resendReset   func(token, email string) (time.Time, error)
	verifyReset   func(token, email, code string) error
	resetPassword func(token, email, newPassword, confirmPassword string) error
	login         func(email, password string) (string, error)
	me            func(userID string) (*models.User, error)
}

func (f *fakeAuthService) StartSignup(_ context.Context, name, email, password string) (string, time.Time, error) {
	return f.startSignup(name, email, password)
}

func (f *fakeAuthService) VerifySignupOTP(_ context.Context, token, email, code string) error {
	return f.verifySignup(token, email, code)
}

func (f *fakeAuthService) ResendSignupOTP(_ context.Context, token, email string) (time.Time, error) {
	return f.resendSignup(token, email)
}

func (f *fakeAuthService) StartPasswordReset(_ context.Context, email string) (string, time.Time, error) {
	return f.startReset(email)
}

func (f *fakeAuthService) ResendResetOTP(_ context.Context, token, email string) (time.Time, error) {
	return f.resendReset(token, email)
}

func (f *fakeAuthService) VerifyResetOTP(_ context.Context, token, email, code string) error {
	return f.verifyReset(token, email, code)
}

func (f *fakeAuthService) ResetPassword(_ context.Context, token, email, newPassword, confirmPassword string) error {
	return f.resetPassword(token, email, newPassword, confirmPassword)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, error) {
	return f.login(email, password)
}

func (f *fakeAuthService) Me(_ context.Context, userID string) (*models.User, error) {
	return f.me(userID)
}

type fakeOTPService struct {
	request func(email string) (time.Time, error)
	verify  func(email, code string) error
}

func (f *fakeOTPService) RequestEmailOTP(_ context.Context, email string) (time.Time, error) {
	return f.request(email)
}

func (f *fakeOTPService) VerifyEmailOTP(_ context.Context, email, code string) error {
	return f.verify(email, code)
}

type fakeQuestionService struct {
	generate func(resume, job, level string, perCategory int) (*models.InterviewQuestions, error)
}

func (f *fakeQuestionService) Generate(_ context.Context, resume, job, level string, perCategory int) (*models.InterviewQuestions, error) {
	return f.generate(resume, job, level, perCategory)
}
