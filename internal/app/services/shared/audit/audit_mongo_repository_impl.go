package audit

import (
	"context"
	"telemed-schedule-service/internal/app/contracts"
	"telemed-schedule-service/internal/app/models"
	"telemed-schedule-service/internal/pkg/constvars"
	"telemed-schedule-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleAuditMongoRepository struct {
	Collection *mongo.Collection
}

func NewScheduleAuditMongoRepository(db *mongo.Client, dbName string) contracts.ScheduleAuditRepository {
	return &ScheduleAuditMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionScheduleAudit),
	}
}

func (repo *ScheduleAuditMongoRepository) Insert(ctx context.Context, auditModel *models.ScheduleAudit) error {
	_, err := repo.Collection.InsertOne(ctx, auditModel)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *ScheduleAuditMongoRepository) FindByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]models.ScheduleAudit, error) {
	filter := bson.M{
		"resourceType": resourceType,
		"resourceId":   resourceID,
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := repo.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var audits []models.ScheduleAudit
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return audits, nil
}
