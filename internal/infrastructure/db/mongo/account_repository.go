package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

const accountCollection = "accounts"

// AccountRepository implements ports.AccountRepository on MongoDB. Every
// mutation is a single-document atomic update; concurrent writers resolve
// last-write-wins.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

// EnsureIndexes creates the uniqueness indexes the domain invariants rely
// on: email globally unique (stored lower-cased, so case-insensitive), and
// federated_id unique when present.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "federated_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"federated_id": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

type mongoAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash,omitempty"`
	IsVerified        bool               `bson:"is_verified"`
	Role              string             `bson:"role"`
	FederatedID       string             `bson:"federated_id,omitempty"`
	VerificationToken string             `bson:"verification_token,omitempty"`
	TokenExpiresAt    time.Time          `bson:"verification_token_expires_at,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toDomain(m *mongoAccount) *domain.Account {
	return &domain.Account{
		ID:                         m.ID.Hex(),
		Name:                       m.Name,
		Email:                      m.Email,
		PasswordHash:               m.PasswordHash,
		IsVerified:                 m.IsVerified,
		Role:                       domain.Role(m.Role),
		FederatedID:                m.FederatedID,
		VerificationToken:          m.VerificationToken,
		VerificationTokenExpiresAt: m.TokenExpiresAt,
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  m.UpdatedAt,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	now := time.Now().UTC()
	doc := mongoAccount{
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		IsVerified:   account.IsVerified,
		Role:         string(account.Role),
		FederatedID:  account.FederatedID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	created := *account
	created.ID = id.Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var m mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomain(&m), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *AccountRepository) FindByFederatedID(ctx context.Context, federatedID string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"federated_id": federatedID})
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int64) ([]*domain.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Account
	for cur.Next(ctx) {
		var m mongoAccount
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, toDomain(&m))
	}
	return out, cur.Err()
}

func (r *AccountRepository) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{
		"verification_token":            token,
		"verification_token_expires_at": bson.M{"$gt": now},
	})
}

func (r *AccountRepository) FindByVerificationTokenPrefix(ctx context.Context, prefix string, now time.Time) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{
		"verification_token":            primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)},
		"verification_token_expires_at": bson.M{"$gt": now},
	})
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"verification_token":            token,
			"verification_token_expires_at": expiresAt,
			"updated_at":                    time.Now().UTC(),
		},
	})
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now().UTC(),
		},
		"$unset": bson.M{
			"verification_token":            "",
			"verification_token_expires_at": "",
		},
	})
}

func (r *AccountRepository) AttachFederatedID(ctx context.Context, id, federatedID string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"federated_id": federatedID,
			"is_verified":  true,
			"updated_at":   time.Now().UTC(),
		},
		"$unset": bson.M{
			"verification_token":            "",
			"verification_token_expires_at": "",
		},
	})
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		set["password_hash"] = *patch.PasswordHash
	}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoAccount
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return toDomain(&m), nil
}

func (r *AccountRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"role":       string(role),
			"updated_at": time.Now().UTC(),
		},
	})
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
