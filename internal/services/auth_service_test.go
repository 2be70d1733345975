package services_test

import (
	"context"
	"testing"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/services"
	"kitchen/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_SignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("unknown email gets a placeholder user in the tab", func(t *testing.T) {
		sess, err := env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x"})
		require.NoError(t, err)
		assert.Equal(t, "User", sess.User.Name)
		assert.Equal(t, env.clock.now.Add(24*time.Hour), sess.ExpiresAt)

		_, err = env.tab.Get(ctx, "client:alice:tab:tab-1", services.KeySession)
		assert.NoError(t, err)
		_, err = env.durable.Get(ctx, "client:alice", services.KeySession)
		assert.Error(t, err)

		claims, err := env.auth.ValidateToken(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims["email"])
	})

	t.Run("remembered session uses the stored profile", func(t *testing.T) {
		_, err := env.auth.UpdateProfile(ctx, alice, models.User{Name: "Ada Obi", Email: "ada@example.com", Phone: "0803 123 4567"})
		require.NoError(t, err)

		sess, err := env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x", RememberMe: true})
		require.NoError(t, err)
		assert.Equal(t, "Ada Obi", sess.User.Name)
		assert.Equal(t, "08031234567", sess.User.Phone)
		assert.Equal(t, env.clock.now.Add(30*24*time.Hour), sess.ExpiresAt)

		_, err = env.durable.Get(ctx, "client:alice", services.KeySession)
		assert.NoError(t, err)
	})

	t.Run("malformed request", func(t *testing.T) {
		_, err := env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "not-an-email"})
		var fe validation.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Please enter a valid email address", fe["email"])
		assert.Equal(t, "Password is required", fe["password"])
	})
}

func TestAuthService_CurrentSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.CurrentSession(ctx, alice)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	_, err = env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, env.auth.IsAuthenticated(ctx, alice))

	// Sessions in one tab are invisible to another.
	assert.False(t, env.auth.IsAuthenticated(ctx, services.Client{ID: alice.ID, TabID: "tab-2"}))

	env.clock.Advance(24 * time.Hour)
	_, err = env.auth.CurrentSession(ctx, alice)
	assert.ErrorIs(t, err, services.ErrSessionExpired)

	_, err = env.tab.Get(ctx, "client:alice:tab:tab-1", services.KeySession)
	assert.Error(t, err, "expired session is removed")
	_, err = env.auth.CurrentSession(ctx, alice)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestAuthService_ForgedTokenSignsOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	forged := services.NewAuthService(env.storage, validation.New(), "another_secret")
	_, err := forged.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x", RememberMe: true})
	require.NoError(t, err)

	_, err = env.auth.CurrentSession(ctx, alice)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
	_, err = env.durable.Get(ctx, "client:alice", services.KeySession)
	assert.Error(t, err)
}

func TestAuthService_SignUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := models.SignUpRequest{
		Name:            "Ada Obi",
		Email:           "ada@example.com",
		Phone:           "+234 803 123 4567",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		Agreed:          true,
	}

	pending, err := env.auth.SignUp(ctx, alice, valid)
	require.NoError(t, err)
	assert.Equal(t, "+2348031234567", pending.Phone)
	assert.False(t, pending.IsVerified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(pending.PasswordHash), []byte("Secret123")))

	_, err = env.durable.Get(ctx, "client:alice", services.KeyPendingVerification)
	assert.NoError(t, err)
	assert.False(t, env.auth.IsAuthenticated(ctx, alice), "sign-up does not sign in")

	tests := []struct {
		name  string
		edit  func(*models.SignUpRequest)
		field string
		msg   string
	}{
		{"bad email", func(r *models.SignUpRequest) { r.Email = "ada" }, "email", "Please enter a valid email address"},
		{"foreign phone", func(r *models.SignUpRequest) { r.Phone = "+1 555 123 4567" }, "phone", "Please enter a valid Nigerian phone number"},
		{"short password", func(r *models.SignUpRequest) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" }, "password", "Password must be at least 8 characters"},
		{"weak password", func(r *models.SignUpRequest) { r.Password, r.ConfirmPassword = "alllowercase1", "alllowercase1" }, "password", "Password must contain uppercase, lowercase, and number"},
		{"mismatch", func(r *models.SignUpRequest) { r.ConfirmPassword = "Secret124" }, "confirmPassword", "Passwords do not match"},
		{"terms", func(r *models.SignUpRequest) { r.Agreed = false }, "agreed", "You must agree to the terms and conditions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.edit(&req)
			_, err := env.auth.SignUp(ctx, alice, req)
			var fe validation.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.msg, fe[tt.field])
		})
	}
}

func TestAuthService_SignOutAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.UpdateProfile(ctx, alice, models.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x", RememberMe: true})
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, alice, models.AddCartLineRequest{FoodItemID: "zobo"})
	require.NoError(t, err)

	require.NoError(t, env.auth.SignOut(ctx, alice))
	assert.False(t, env.auth.IsAuthenticated(ctx, alice))
	_, err = env.durable.Get(ctx, "client:alice", services.KeyUser)
	assert.Error(t, err, "sign-out removes the profile")
	view, err := env.cart.Get(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1, "sign-out keeps the cart")

	_, err = env.checkout.AddAddress(ctx, alice, models.Address{Type: "home", Address: "1 Marina, Lagos Island"})
	require.NoError(t, err)
	require.NoError(t, env.auth.DeleteAccount(ctx, alice))

	view, err = env.cart.Get(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	book, err := env.checkout.Addresses(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, book, 2, "address book is back to the defaults")
}

func TestAuthService_Profile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.auth.SignIn(ctx, alice, models.SignInRequest{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	user, err := env.auth.Profile(ctx, alice, sess)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = env.auth.UpdateProfile(ctx, alice, models.User{Name: "Ada", Email: "bad"})
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "email")

	updated, err := env.auth.UpdateProfile(ctx, alice, models.User{Name: "Ada", Email: "ada@example.com", Address: "12 Awolowo Road"})
	require.NoError(t, err)
	assert.Equal(t, env.clock.now, updated.CreatedAt)

	user, err = env.auth.Profile(ctx, alice, sess)
	require.NoError(t, err)
	assert.Equal(t, "12 Awolowo Road", user.Address)
}

func TestAuthService_PasswordStrength(t *testing.T) {
	env := newTestEnv(t)

	s := env.auth.PasswordStrength("Secret123!")
	assert.Equal(t, 5, s.Score)
	assert.Equal(t, "Very Strong", s.Label)

	s = env.auth.PasswordStrength("abc")
	assert.Equal(t, 1, s.Score)
	assert.False(t, s.Length)
}
