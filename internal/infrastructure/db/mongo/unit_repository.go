package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akeray/property-system/internal/core/domain"
)

const unitCollection = "units"

// UnitRepository implements ports.UnitRepository using MongoDB.
type UnitRepository struct {
	coll *mongo.Collection
}

func NewUnitRepository(db *mongo.Database) *UnitRepository {
	return &UnitRepository{coll: db.Collection(unitCollection)}
}

type unitDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	PropertyID  string             `bson:"property_id"`
	UnitNumber  string             `bson:"unit_number"`
	Bedrooms    int                `bson:"bedrooms"`
	MonthlyRent float64            `bson:"monthly_rent"`
	Occupied    bool               `bson:"occupied"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (r *UnitRepository) Create(ctx context.Context, u *domain.Unit) (*domain.Unit, error) {
	res, err := r.coll.InsertOne(ctx, toUnitDoc(u))
	if err != nil {
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	created := *u
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UnitRepository) FindByID(ctx context.Context, id string) (*domain.Unit, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc unitDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}
	return toUnitDomain(&doc), nil
}

func (r *UnitRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.Unit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "unit_number", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"property_id": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Unit
	for cur.Next(ctx) {
		var doc unitDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode unit: %w", err)
		}
		out = append(out, toUnitDomain(&doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return out, nil
}

func (r *UnitRepository) Update(ctx context.Context, u *domain.Unit) error {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	doc := toUnitDoc(u)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UnitRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"property_id": propertyID}); err != nil {
		return fmt.Errorf("delete units by property: %w", err)
	}
	return nil
}

func toUnitDoc(u *domain.Unit) unitDoc {
	return unitDoc{
		PropertyID:  u.PropertyID,
		UnitNumber:  u.UnitNumber,
		Bedrooms:    u.Bedrooms,
		MonthlyRent: u.MonthlyRent,
		Occupied:    u.Occupied,
		CreatedAt:   u.CreatedAt.Unix(),
		UpdatedAt:   u.UpdatedAt.Unix(),
	}
}

func toUnitDomain(doc *unitDoc) *domain.Unit {
	return &domain.Unit{
		ID:          doc.ID.Hex(),
		PropertyID:  doc.PropertyID,
		UnitNumber:  doc.UnitNumber,
		Bedrooms:    doc.Bedrooms,
		MonthlyRent: doc.MonthlyRent,
		Occupied:    doc.Occupied,
		CreatedAt:   unixToTime(doc.CreatedAt),
		UpdatedAt:   unixToTime(doc.UpdatedAt),
	}
}
