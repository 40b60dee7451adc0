package models

import (
	"errors"
	"strings"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.DOB) == "" {
		errs = append(errs, "dob is required")
	}
	if !isEmail(r.Email) {
		errs = append(errs, "email must be a valid address")
	}
	if !isPhoneNumber(r.PhoneNumber) {
		errs = append(errs, "phoneNumber must be 10 digits")
	}
	if len(strings.TrimSpace(r.Password)) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type RegisterResponse struct {
	CallerID    string `json:"callerId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	var errs []string

	if !isEmail(r.Email) {
		errs = append(errs, "email must be a valid address")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type SignInResponse struct {
	CallerID string `json:"callerId"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func isEmail(raw string) bool {
	email := strings.TrimSpace(raw)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func isPhoneNumber(raw string) bool {
	phone := strings.TrimSpace(raw)
	if len(phone) != 10 {
		return false
	}
	return digitsOnly(phone)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
