package store

import (
	"context"
	"time"

	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps each record kind in its own collection.
type MongoStore struct {
	users    *mongo.Collection
	mentors  *mongo.Collection
	bookings *mongo.Collection
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{
		users:    database.Collection("users"),
		mentors:  database.Collection("mentors"),
		bookings: database.Collection("bookings"),
	}
}

// EnsureIndexes sets up the uniqueness guarantees the data model relies on:
// one account per email, one profile per mentor id, and at most one live
// booking per (mentor, date, time). The last one is a unique partial index
// over active bookings only; ClaimSlot depends on it, since a plain upsert
// lets two concurrent inserts through when neither matches the filter.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.mentors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mentorid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "mentorid", Value: 1}, {Key: "date", Value: 1}}},
		{
			Keys: bson.D{{Key: "mentorid", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
	})
	return err
}

func (s *MongoStore) CreateAccount(ctx context.Context, acc models.Account) error {
	_, err := s.users.InsertOne(ctx, acc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *MongoStore) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var acc models.Account
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return models.Account{}, ErrNotFound
	}
	return acc, err
}

func (s *MongoStore) GetAccountByID(ctx context.Context, id string) (models.Account, error) {
	var acc models.Account
	err := s.users.FindOne(ctx, bson.M{"userid": id}).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return models.Account{}, ErrNotFound
	}
	return acc, err
}

func (s *MongoStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"userid": id},
		bson.M{"$set": bson.M{"last_login": at}},
	)
	return err
}

func (s *MongoStore) SaveMentor(ctx context.Context, m models.Mentor) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.mentors.ReplaceOne(ctx, bson.M{"mentorid": m.MentorID}, m, opts)
	return err
}

func (s *MongoStore) GetMentor(ctx context.Context, id string) (models.Mentor, error) {
	var m models.Mentor
	err := s.mentors.FindOne(ctx, bson.M{"mentorid": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Mentor{}, ErrNotFound
	}
	return m, err
}

func (s *MongoStore) ListMentors(ctx context.Context) ([]models.Mentor, error) {
	cur, err := s.mentors.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	mentors := []models.Mentor{}
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (s *MongoStore) SaveCalendarTokens(ctx context.Context, mentorID, access, refresh string, expiry time.Time, connected bool) error {
	set := bson.M{
		"google_access_token":       access,
		"google_token_expiry":       expiry,
		"google_calendar_connected": connected,
	}
	// A refresh token is only handed out on the first consent; keep the
	// stored one when Google does not rotate it.
	if refresh != "" {
		set["google_refresh_token"] = refresh
	}
	res, err := s.mentors.UpdateOne(ctx, bson.M{"mentorid": mentorID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimSlot reserves (mentorid, date, time). An existing live booking makes
// the upsert a no-op (UpsertedCount 0). When two claims for a free slot race,
// both may try to insert; the unique partial index from EnsureIndexes rejects
// the second, and that duplicate-key error is the losing outcome, not a
// failure.
func (s *MongoStore) ClaimSlot(ctx context.Context, b models.Booking) (bool, error) {
	b.Active = true
	filter := bson.M{
		"mentorid": b.MentorID,
		"date":     b.Date,
		"time":     b.Time,
		"active":   true,
	}
	update := bson.M{"$setOnInsert": b}
	opts := options.Update().SetUpsert(true)

	res, err := s.bookings.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"bookingid": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return models.Booking{}, ErrNotFound
	}
	return b, err
}

func (s *MongoStore) ListBookings(ctx context.Context, mentorID string) ([]models.Booking, error) {
	filter := bson.M{}
	if mentorID != "" {
		filter["mentorid"] = mentorID
	}
	cur, err := s.bookings.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *MongoStore) SetBookingStatus(ctx context.Context, id, status string) (models.Booking, error) {
	// Cancelling drops the active marker so the slot leaves the unique
	// partial index and can be claimed again.
	update := bson.M{"$set": bson.M{"status": status}}
	if status == models.BookingStatusCancelled {
		update["$unset"] = bson.M{"active": ""}
	} else {
		update["$set"].(bson.M)["active"] = true
	}
	res := s.bookings.FindOneAndUpdate(ctx,
		bson.M{"bookingid": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Booking{}, ErrNotFound
		}
		return models.Booking{}, err
	}
	return updated, nil
}
