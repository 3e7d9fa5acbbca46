package handler

import (
	"strings"
	"testing"
)

func TestValidateSignup(t *testing.T) {
	valid := SignupRequest{
		Username:  "demo-user",
		Email:     "demo@example.com",
		Password:  "password",
		FirstName: "Demo",
		LastName:  "User",
	}

	if errs := validateSignup(&valid); len(errs) != 0 {
		t.Fatalf("expected valid signup, got %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		field  string
	}{
		{"short username", func(r *SignupRequest) { r.Username = "abc" }, "username"},
		{"long username", func(r *SignupRequest) { r.Username = strings.Repeat("a", 31) }, "username"},
		{"email-shaped username", func(r *SignupRequest) { r.Username = "user@example.com" }, "username"},
		{"invalid email", func(r *SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *SignupRequest) { r.Password = "abc" }, "password"},
		{"missing first name", func(r *SignupRequest) { r.FirstName = "" }, "first_name"},
		{"missing last name", func(r *SignupRequest) { r.LastName = "" }, "last_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := validateSignup(&req)
			if _, ok := errs[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateSpot(t *testing.T) {
	valid := SpotRequest{
		Country:     "United States",
		Address:     "123 Disney Lane",
		City:        "San Francisco",
		State:       "California",
		Name:        "App Academy",
		Price:       123,
		Description: "Place where web developers are created, daily.",
	}

	if errs := validateSpot(&valid); len(errs) != 0 {
		t.Fatalf("expected valid spot, got %v", errs)
	}

	zeroPrice := valid
	zeroPrice.Price = 0
	if _, ok := validateSpot(&zeroPrice)["price"]; !ok {
		t.Fatal("expected error for non-positive price")
	}

	shortDescription := valid
	shortDescription.Description = "too short"
	if _, ok := validateSpot(&shortDescription)["description"]; !ok {
		t.Fatal("expected error for description under 30 characters")
	}
}

func TestValidateReview(t *testing.T) {
	valid := ReviewRequest{Stars: 4, Body: "Great place, would stay again."}
	if errs := validateReview(&valid); len(errs) != 0 {
		t.Fatalf("expected valid review, got %v", errs)
	}

	for _, stars := range []int{0, 6, -1} {
		req := valid
		req.Stars = stars
		if _, ok := validateReview(&req)["stars"]; !ok {
			t.Fatalf("expected error for stars = %d", stars)
		}
	}

	shortBody := valid
	shortBody.Body = "meh"
	if _, ok := validateReview(&shortBody)["body"]; !ok {
		t.Fatal("expected error for short review body")
	}
}
