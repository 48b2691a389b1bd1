package mongo

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
)

const identityCollection = "identity_users"

// IdentityProvider is the reference identity backend: a MongoDB directory of
// principals with bcrypt password hashes and code-based confirmation and
// password-reset flows.
type IdentityProvider struct {
	coll *mongo.Collection
}

func NewIdentityProvider(db *mongo.Database) *IdentityProvider {
	return &IdentityProvider{coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Phone        string             `bson:"phone,omitempty"`
	Role         string             `bson:"role"`
	AvatarURL    string             `bson:"avatar_url,omitempty"`
	Confirmed    bool               `bson:"confirmed"`
	ConfirmCode  string             `bson:"confirm_code,omitempty"`
	ResetCode    string             `bson:"reset_code,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
	LastSignOut  int64              `bson:"last_sign_out,omitempty"`
}

func (p *IdentityProvider) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.Identity, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !input.Role.Valid() {
		return nil, domain.ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := identityDoc{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         string(input.Role),
		Confirmed:    false,
		ConfirmCode:  generateCode(),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	res, err := p.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	doc.ID = id
	return toIdentity(doc), nil
}

func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	doc, err := p.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !doc.Confirmed {
		return nil, domain.ErrNotConfirmed
	}
	return toIdentity(*doc), nil
}

func (p *IdentityProvider) SignOut(ctx context.Context, identityID string) error {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}
	_, err = p.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"last_sign_out": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("record sign-out: %w", err)
	}
	return nil
}

func (p *IdentityProvider) CurrentUser(ctx context.Context, identityID string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	var doc identityDoc
	if err := p.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return toIdentity(doc), nil
}

func (p *IdentityProvider) ConfirmSignUp(ctx context.Context, email, code string) error {
	doc, err := p.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if doc.Confirmed {
		return nil
	}
	if code == "" || doc.ConfirmCode != code {
		return domain.ErrInvalidCode
	}

	_, err = p.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{
			"$set":   bson.M{"confirmed": true, "updated_at": time.Now().UTC().Unix()},
			"$unset": bson.M{"confirm_code": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("confirm identity: %w", err)
	}
	return nil
}

func (p *IdentityProvider) ForgotPassword(ctx context.Context, email string) error {
	doc, err := p.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	_, err = p.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{"reset_code": generateCode(), "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}
	return nil
}

func (p *IdentityProvider) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	doc, err := p.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if code == "" || doc.ResetCode != code {
		return domain.ErrInvalidCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = p.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{
			"$set":   bson.M{"password_hash": string(hash), "updated_at": time.Now().UTC().Unix()},
			"$unset": bson.M{"reset_code": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (p *IdentityProvider) findByEmail(ctx context.Context, email string) (*identityDoc, error) {
	var doc identityDoc
	if err := p.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &doc, nil
}

func toIdentity(doc identityDoc) *domain.Identity {
	return &domain.Identity{
		ID:        doc.ID.Hex(),
		Email:     doc.Email,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Phone:     doc.Phone,
		Role:      domain.Role(doc.Role),
		AvatarURL: doc.AvatarURL,
		CreatedAt: unixToTime(doc.CreatedAt),
		UpdatedAt: unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// generateCode produces a 6-digit verification code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
