package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"smartroad-be/apperrors"
	"smartroad-be/models"
)

const (
	reportsCollection = "reports"
	usersCollection   = "users"
	queryTimeout      = 10 * time.Second
)

// MongoStore persists reports and users in MongoDB.
type MongoStore struct {
	client  *mongo.Client
	reports *mongo.Collection
	users   *mongo.Collection
}

// NewMongoStore wraps an open database. Call EnsureIndexes before serving.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{
		client:  client,
		reports: db.Collection(reportsCollection),
		users:   db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique email index and the report listing index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = s.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create reports status index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateReport(ctx context.Context, report *models.IssueReport) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.reports.InsertOne(ctx, report); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("report already exists")
		}
		return apperrors.Internal("failed to create report", err)
	}
	return nil
}

func (s *MongoStore) GetReport(ctx context.Context, id string) (*models.IssueReport, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var report models.IssueReport
	err := s.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("report", err)
		}
		return nil, apperrors.Internal("failed to retrieve report", err)
	}
	return &report, nil
}

func (s *MongoStore) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.IssueReport, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := buildReportFilter(filter)

	total, err := s.reports.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count reports", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := s.reports.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to retrieve reports", err)
	}
	defer cursor.Close(ctx)

	reports := []models.IssueReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, apperrors.Internal("failed to decode reports", err)
	}
	return reports, total, nil
}

func (s *MongoStore) UpdateReportStatus(ctx context.Context, id string, from, to models.ReportStatus, reviewer string, at int64) (*models.IssueReport, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     to,
		"reviewedBy": reviewer,
		"reviewedAt": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report models.IssueReport
	err := s.reports.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&report)
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Internal("failed to update report", err)
	}

	// Distinguish a missing report from one that was already reviewed.
	current, getErr := s.GetReport(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.Conflict("report is already " + string(current.Status))
}

func (s *MongoStore) CountReports(ctx context.Context) (models.ReportCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	counts := models.ReportCounts{ByType: make(map[models.HazardType]int64)}

	byStatus, err := s.groupCount(ctx, "$status")
	if err != nil {
		return counts, err
	}
	for key, n := range byStatus {
		counts.Total += n
		switch models.ReportStatus(key) {
		case models.Pending:
			counts.Pending = n
		case models.Verified:
			counts.Verified = n
		case models.Rejected:
			counts.Rejected = n
		}
	}

	byType, err := s.groupCount(ctx, "$type")
	if err != nil {
		return counts, err
	}
	for key, n := range byType {
		counts.ByType[models.HazardType(key)] = n
	}
	return counts, nil
}

func (s *MongoStore) groupCount(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}

	cursor, err := s.reports.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate reports", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Internal("failed to decode report aggregation", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

func (s *MongoStore) SeedReports(ctx context.Context, reports []models.IssueReport) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := s.reports.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, apperrors.Internal("failed to count reports", err)
	}
	if n > 0 || len(reports) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(reports))
	for i := range reports {
		docs[i] = reports[i]
	}
	res, err := s.reports.InsertMany(ctx, docs)
	if err != nil {
		return 0, apperrors.Internal("failed to seed reports", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = strings.ToLower(user.Email)
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("user with this email already exists")
		}
		return apperrors.Internal("failed to create user", err)
	}
	return nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": strings.ToLower(email)})
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal("failed to retrieve user", err)
	}
	return &user, nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user.Email = strings.ToLower(user.Email)
	update := bson.M{
		"$set": bson.M{"password": user.Password, "role": user.Role},
		"$setOnInsert": bson.M{
			"_id":       user.ID,
			"createdAt": user.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&stored); err != nil {
		return apperrors.Internal("failed to upsert user", err)
	}
	user.ID = stored.ID
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func buildReportFilter(f models.ReportFilter) bson.M {
	filter := bson.M{}
	switch len(f.Statuses) {
	case 0:
	case 1:
		filter["status"] = f.Statuses[0]
	default:
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.ReportedBy != "" {
		filter["reportedBy"] = f.ReportedBy
	}
	return filter
}
