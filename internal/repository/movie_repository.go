package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Taranv8/hdhub4u/internal/models"
	"github.com/Taranv8/hdhub4u/internal/search"
)

// ErrNotFound reports a lookup for a movie that does not exist.
var ErrNotFound = errors.New("movie not found")

// MovieRepository handles all reads and the single counter write against the
// movies collection.
type MovieRepository struct {
	collection *mongo.Collection
}

func NewMovieRepository(client *mongo.Client, dbName, collectionName string) *MovieRepository {
	return &MovieRepository{collection: client.Database(dbName).Collection(collectionName)}
}

// movieDoc mirrors the stored document. _id is an ObjectID in storage but an
// opaque hex string everywhere above this layer.
type movieDoc struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty"`
	Title            string                `bson:"title"`
	ShortTitle       string                `bson:"shortTitle"`
	Heading          string                `bson:"heading"`
	Link             string                `bson:"link"`
	Image            string                `bson:"image"`
	Genre            models.StringList     `bson:"genre"`
	Stars            string                `bson:"stars"`
	Director         string                `bson:"director"`
	Language         string                `bson:"language"`
	Quality          string                `bson:"quality"`
	IMDBRating       float64               `bson:"imdbRating"`
	Storyline        string                `bson:"storyline"`
	Trailer          string                `bson:"trailer"`
	Screenshots      []string              `bson:"screenshots"`
	DownloadLinks    []models.DownloadLink `bson:"downloadLinks"`
	EpisodeLinks     []models.EpisodeLink  `bson:"episodeLinks"`
	ReleaseDate      time.Time             `bson:"releaseDate"`
	AllTimeDownload  int64                 `bson:"alltimedownload"`
	MonthlyDownload  int64                 `bson:"monthlydownload"`
	LastResetMonth   int                   `bson:"lastResetMonth"`
	LastResetYear    int                   `bson:"lastResetYear"`
	LastDownloadDate time.Time             `bson:"lastDownloadDate"`
}

var movieProjection = bson.M{
	"_id": 1, "title": 1, "shortTitle": 1, "heading": 1, "link": 1, "image": 1,
	"genre": 1, "stars": 1, "director": 1, "language": 1, "quality": 1,
	"imdbRating": 1, "storyline": 1, "trailer": 1, "screenshots": 1,
	"downloadLinks": 1, "episodeLinks": 1, "releaseDate": 1,
	"alltimedownload": 1, "monthlydownload": 1,
	"lastResetMonth": 1, "lastResetYear": 1,
}

// EnsureIndexes creates the indexes the hot query paths rely on.
func (r *MovieRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "releaseDate", Value: -1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "monthlydownload", Value: -1}}},
		{Keys: bson.D{{Key: "link", Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByIDOrSlug looks a movie up by its 24-hex ObjectID, falling back to the
// URL slug stored in the link field for any other identifier shape.
func (r *MovieRepository) GetByIDOrSlug(ctx context.Context, identifier string) (models.Movie, error) {
	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(identifier); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		filter = bson.M{"link": identifier}
	}

	var doc movieDoc
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetProjection(movieProjection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Movie{}, ErrNotFound
		}
		return models.Movie{}, fmt.Errorf("find movie: %w", err)
	}
	return fromDoc(doc), nil
}

// Latest returns the newest releases, page by page, with the estimated total.
func (r *MovieRepository) Latest(ctx context.Context, page, limit int) ([]models.Movie, int64, error) {
	opts := options.Find().
		SetProjection(movieProjection).
		SetSort(bson.D{{Key: "releaseDate", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find latest movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode latest movies: %w", err)
	}

	total, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}
	return fromDocs(docs), total, nil
}

// DistinctGenres returns every genre literal present in storage, sorted.
func (r *MovieRepository) DistinctGenres(ctx context.Context) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "genre", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}
	genres := make([]string, 0, len(raw))
	for _, value := range raw {
		if s, ok := value.(string); ok && s != "" {
			genres = append(genres, s)
		}
	}
	sort.Strings(genres)
	return genres, nil
}

// ByGenre lists movies whose genre field equals the literal, case-insensitively,
// newest release first.
func (r *MovieRepository) ByGenre(ctx context.Context, genre string, page, limit int) ([]models.Movie, int64, error) {
	filter := bson.M{"genre": bson.M{
		"$regex":   search.AnchoredLiteral(genre),
		"$options": "i",
	}}

	opts := options.Find().
		SetProjection(movieProjection).
		SetSort(bson.D{{Key: "releaseDate", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find movies by genre: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode movies by genre: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies by genre: %w", err)
	}
	return fromDocs(docs), total, nil
}

// SearchCandidates pulls every record matching at least one of the planner's
// match strategies, in raw collection order. Scoring and pagination happen in
// memory above this layer; this holds only while the catalog stays moderate.
func (r *MovieRepository) SearchCandidates(ctx context.Context, query string, year int) ([]models.Movie, error) {
	phrase := search.PhrasePattern(query)
	contains := func(field, pattern string) bson.M {
		return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}
	}

	conditions := []bson.M{
		contains("title", phrase),
		contains("shortTitle", phrase),
		contains("heading", phrase),
		contains("genre", phrase),
		contains("stars", phrase),
		contains("director", phrase),
	}

	if relaxed := search.RelaxedPattern(query); relaxed != "" {
		conditions = append(conditions,
			contains("title", relaxed),
			contains("shortTitle", relaxed),
			contains("heading", relaxed),
		)
	}

	if words := search.Words(query); len(words) > 1 {
		perWord := make([]bson.M, 0, len(words))
		for _, word := range words {
			pattern := search.PhrasePattern(word)
			perWord = append(perWord, bson.M{"$or": []bson.M{
				contains("title", pattern),
				contains("shortTitle", pattern),
				contains("heading", pattern),
			}})
		}
		conditions = append(conditions, bson.M{"$and": perWord})
	}

	filter := bson.M{"$or": conditions}
	if year > 0 {
		filter = bson.M{"$and": []bson.M{
			{"$or": conditions},
			{"releaseDate": bson.M{
				"$gte": time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				"$lte": time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
			}},
		}}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(movieProjection))
	if err != nil {
		return nil, fmt.Errorf("find search candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode search candidates: %w", err)
	}
	return fromDocs(docs), nil
}

// Related finds movies sharing a genre, language, lead billing or director with
// the given movie, best rated first.
func (r *MovieRepository) Related(ctx context.Context, movie models.Movie, excludeIDs []string, limit int) ([]models.Movie, error) {
	var conditions []bson.M
	if len(movie.Genre) > 0 {
		conditions = append(conditions, bson.M{"genre": bson.M{"$in": []string(movie.Genre)}})
	}
	if movie.Language != "" {
		conditions = append(conditions, bson.M{"language": bson.M{
			"$regex":   search.PhrasePattern(movie.Language),
			"$options": "i",
		}})
	}
	if lead := leadBilling(movie.Stars); lead != "" {
		conditions = append(conditions, bson.M{"stars": bson.M{
			"$regex":   search.PhrasePattern(lead),
			"$options": "i",
		}})
	}
	if movie.Director != "" {
		conditions = append(conditions, bson.M{"director": bson.M{
			"$regex":   search.PhrasePattern(movie.Director),
			"$options": "i",
		}})
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	filter := bson.M{"$or": conditions}
	if exclude := objectIDs(excludeIDs); len(exclude) > 0 {
		filter = bson.M{"$and": []bson.M{
			{"$or": conditions},
			{"_id": bson.M{"$nin": exclude}},
		}}
	}

	opts := options.Find().
		SetProjection(movieProjection).
		SetSort(bson.D{{Key: "imdbRating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find related movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode related movies: %w", err)
	}
	return fromDocs(docs), nil
}

// TopRated returns the best-rated movies, optionally restricted to genres
// matching the given case-insensitive pattern.
func (r *MovieRepository) TopRated(ctx context.Context, genrePattern string, limit int) ([]models.Movie, error) {
	filter := bson.M{}
	if genrePattern != "" {
		filter["genre"] = bson.M{"$regex": genrePattern, "$options": "i"}
	}

	opts := options.Find().
		SetProjection(movieProjection).
		SetSort(bson.D{{Key: "imdbRating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find top rated movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode top rated movies: %w", err)
	}
	return fromDocs(docs), nil
}

// TopMonthly returns the movies with the highest download counts this month.
// Ties are broken by _id so the ordering stays stable across requests.
func (r *MovieRepository) TopMonthly(ctx context.Context, limit int) ([]models.MonthlyMovie, error) {
	filter := bson.M{"monthlydownload": bson.M{"$exists": true, "$gte": 0}}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "title": 1, "image": 1, "monthlydownload": 1}).
		SetSort(bson.D{{Key: "monthlydownload", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find top monthly movies: %w", err)
	}
	defer cursor.Close(ctx)

	type monthlyDoc struct {
		ID              primitive.ObjectID `bson:"_id"`
		Title           string             `bson:"title"`
		Image           string             `bson:"image"`
		MonthlyDownload int64              `bson:"monthlydownload"`
	}
	var docs []monthlyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode top monthly movies: %w", err)
	}

	movies := make([]models.MonthlyMovie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, models.MonthlyMovie{
			ID:              doc.ID.Hex(),
			Title:           doc.Title,
			Image:           doc.Image,
			MonthlyDownload: doc.MonthlyDownload,
		})
	}
	return movies, nil
}

// UpdateDownloadCounters writes the rolled-over counter values for a movie.
func (r *MovieRepository) UpdateDownloadCounters(ctx context.Context, id string, allTime, monthly int64, month, year int, when time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"alltimedownload":  allTime,
		"monthlydownload":  monthly,
		"lastResetMonth":   month,
		"lastResetYear":    year,
		"lastDownloadDate": when,
	}})
	if err != nil {
		return fmt.Errorf("update download counters: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func fromDoc(doc movieDoc) models.Movie {
	return models.Movie{
		ID:              doc.ID.Hex(),
		Title:           doc.Title,
		ShortTitle:      doc.ShortTitle,
		Heading:         doc.Heading,
		Link:            doc.Link,
		Image:           doc.Image,
		Genre:           doc.Genre,
		Stars:           doc.Stars,
		Director:        doc.Director,
		Language:        doc.Language,
		Quality:         doc.Quality,
		IMDBRating:      doc.IMDBRating,
		Storyline:       doc.Storyline,
		Trailer:         doc.Trailer,
		Screenshots:     doc.Screenshots,
		DownloadLinks:   doc.DownloadLinks,
		EpisodeLinks:    doc.EpisodeLinks,
		ReleaseDate:     doc.ReleaseDate,
		AllTimeDownload: doc.AllTimeDownload,
		MonthlyDownload: doc.MonthlyDownload,
		LastResetMonth:  doc.LastResetMonth,
		LastResetYear:   doc.LastResetYear,
	}
}

func fromDocs(docs []movieDoc) []models.Movie {
	movies := make([]models.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, fromDoc(doc))
	}
	return movies
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func leadBilling(stars string) string {
	lead, _, _ := strings.Cut(stars, ",")
	return strings.TrimSpace(lead)
}
