package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

const (
	adminCollection  = "admins"
	ownerCollection  = "owners"
	tenantCollection = "tenants"
)

// PrincipalRepository implements ports.PrincipalRepository over one role
// collection. Each role gets its own collection with its own unique email
// index, which is what scopes email uniqueness per role.
type PrincipalRepository struct {
	coll *mongo.Collection
	role domain.Role
}

func NewAdminRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(adminCollection), role: domain.RoleAdmin}
}

func NewOwnerRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(ownerCollection), role: domain.RoleOwner}
}

func NewTenantRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(tenantCollection), role: domain.RoleTenant}
}

// NewPrincipalStores bundles the three repositories for the services.
func NewPrincipalStores(db *mongo.Database) ports.PrincipalStores {
	return ports.PrincipalStores{
		Admins:  NewAdminRepository(db),
		Owners:  NewOwnerRepository(db),
		Tenants: NewTenantRepository(db),
	}
}

// EnsureIndexes creates the unique email index on every role collection.
// Call once at startup; the duplicate-email guarantee depends on it.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{adminCollection, ownerCollection, tenantCollection} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create email index on %s: %w", name, err)
		}
	}
	return nil
}

type principalDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"full_name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	RefreshToken string             `bson:"refresh_token,omitempty"`
	Verified     bool               `bson:"verified"`
	Status       string             `bson:"status,omitempty"`
	OTP          string             `bson:"otp,omitempty"`
	OTPExpiresAt int64              `bson:"otp_expires_at,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *PrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	doc := toPrincipalDoc(p)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}

	created := *p
	created.Email = doc.Email
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var doc principalDoc
	filter := bson.M{"email": domain.NormalizeEmail(email)}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find principal by email: %w", err)
	}
	return r.toDomain(&doc), nil
}

func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc principalDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find principal by id: %w", err)
	}
	return r.toDomain(&doc), nil
}

// Save replaces the principal row in one write. Concurrent saves against the
// same row are ordered by the storage engine; the last write wins.
func (r *PrincipalRepository) Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	doc := toPrincipalDoc(p)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save principal: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	saved := *p
	saved.Email = doc.Email
	return &saved, nil
}

func (r *PrincipalRepository) List(ctx context.Context, page, limit int) ([]*domain.Principal, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count principals: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list principals: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Principal
	for cur.Next(ctx) {
		var doc principalDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode principal: %w", err)
		}
		out = append(out, r.toDomain(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate principals: %w", err)
	}
	return out, total, nil
}

func toPrincipalDoc(p *domain.Principal) principalDoc {
	return principalDoc{
		Email:        domain.NormalizeEmail(p.Email),
		FullName:     p.FullName,
		PasswordHash: p.PasswordHash,
		Role:         string(p.Role),
		RefreshToken: p.RefreshToken,
		Verified:     p.Verified,
		Status:       string(p.Status),
		OTP:          p.OTP,
		OTPExpiresAt: timeToUnix(p.OTPExpiresAt),
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}
}

func (r *PrincipalRepository) toDomain(doc *principalDoc) *domain.Principal {
	return &domain.Principal{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		FullName:     doc.FullName,
		PasswordHash: doc.PasswordHash,
		Role:         r.role,
		RefreshToken: doc.RefreshToken,
		Verified:     doc.Verified,
		Status:       domain.AccountStatus(doc.Status),
		OTP:          doc.OTP,
		OTPExpiresAt: unixToTime(doc.OTPExpiresAt),
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
