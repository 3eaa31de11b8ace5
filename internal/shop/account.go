package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// Points needed to fill the progress bar of each tier.
const (
	silverGoal = 1000
	goldGoal   = 5000
)

var validate = validator.New()

// RegisterInput is the payload of the sign-up form.
type RegisterInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// TierProgress drives the membership progress bar of the profile page.
type TierProgress struct {
	Tier      domain.MembershipTier `json:"tier"`
	Points    int                   `json:"points"`
	Goal      int                   `json:"goal,omitempty"`
	Remaining int                   `json:"remaining"`
	Percent   float64               `json:"percent"`
	Text      string                `json:"text"`
}

func (s *Service) userBucket() store.Bucket[*domain.User] {
	return store.NewBucket[*domain.User](s.kv, KeyUser)
}

// Register creates the single mock profile of this client, replacing any
// previous one. New users start at bronze with no points.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	user := domain.User{
		ID:         s.newUserID(),
		Name:       in.Name,
		Email:      in.Email,
		Joined:     s.now().UTC(),
		Membership: domain.TierBronze,
		Points:     0,
	}
	if err := s.userBucket().Save(ctx, &user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("profile created", zap.String("user_id", user.ID))
	return user, nil
}

// CurrentUser returns the stored profile; ok is false when logged out.
func (s *Service) CurrentUser(ctx context.Context) (user domain.User, ok bool, err error) {
	u, err := s.userBucket().Load(ctx)
	if err != nil || u == nil || u.ID == "" {
		return domain.User{}, false, err
	}
	u.Membership = domain.ParseTier(string(u.Membership))
	return *u, true, nil
}

func (s *Service) requireUser(ctx context.Context) (domain.User, error) {
	user, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrLoginRequired
	}
	return user, nil
}

// Logout wipes everything stored for this client: profile, carts,
// wishlist, comparison list and order history.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.DeletePrefix(ctx, ""); err != nil {
		return fmt.Errorf("shop: logout: %w", err)
	}
	return nil
}

// Subscribe switches the membership plan of the current user.
func (s *Service) Subscribe(ctx context.Context, tier domain.MembershipTier) (domain.User, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user.Membership = domain.ParseTier(string(tier))
	if err := s.saveUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) saveUser(ctx context.Context, user domain.User) error {
	return s.userBucket().Save(ctx, &user)
}

// Progress computes how far user is from the next tier.
func Progress(user domain.User) TierProgress {
	p := TierProgress{Tier: domain.ParseTier(string(user.Membership)), Points: user.Points}
	var next string
	switch p.Tier {
	case domain.TierBronze:
		p.Goal, next = silverGoal, "Silver"
	case domain.TierSilver:
		p.Goal, next = goldGoal, "Gold"
	default:
		p.Percent = 100
		p.Text = "Maximum Tier Reached"
		return p
	}
	p.Percent = min(float64(user.Points)*100/float64(p.Goal), 100)
	p.Remaining = max(0, p.Goal-user.Points)
	p.Text = fmt.Sprintf("%s points to %s", formatCount(p.Remaining), next)
	return p
}
