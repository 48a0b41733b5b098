package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList decodes a genre-style field that older catalog documents store as a
// single string and newer ones store as an array. Downstream code always sees a slice.
type StringList []string

func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		if v, ok := rv.StringValueOK(); ok && v != "" {
			*s = StringList{v}
		} else {
			*s = nil
		}
		return nil
	case bson.TypeArray:
		values, err := rv.Array().Values()
		if err != nil {
			return err
		}
		out := make(StringList, 0, len(values))
		for _, value := range values {
			if v, ok := value.StringValueOK(); ok && v != "" {
				out = append(out, v)
			}
		}
		*s = out
		return nil
	default:
		*s = nil
		return nil
	}
}

// DownloadLink is a single labelled download URL.
type DownloadLink struct {
	Href  string `bson:"href" json:"href"`
	Value string `bson:"value" json:"value"`
}

// EpisodeLink holds per-episode download URLs keyed by quality then platform.
type EpisodeLink struct {
	Episode string                       `bson:"episode" json:"episode"`
	Links   map[string]map[string]string `bson:"links" json:"links"`
}

// Movie is the canonical catalog document.
type Movie struct {
	ID               string         `bson:"_id,omitempty" json:"_id"`
	Title            string         `bson:"title" json:"title"`
	ShortTitle       string         `bson:"shortTitle" json:"shortTitle"`
	Heading          string         `bson:"heading" json:"heading"`
	Link             string         `bson:"link" json:"link"`
	Image            string         `bson:"image" json:"image"`
	Genre            StringList     `bson:"genre" json:"genre"`
	Stars            string         `bson:"stars" json:"stars"`
	Director         string         `bson:"director" json:"director"`
	Language         string         `bson:"language" json:"language"`
	Quality          string         `bson:"quality" json:"quality"`
	IMDBRating       float64        `bson:"imdbRating" json:"imdbRating"`
	Storyline        string         `bson:"storyline" json:"storyline"`
	Trailer          string         `bson:"trailer" json:"trailer"`
	Screenshots      []string       `bson:"screenshots" json:"screenshots"`
	DownloadLinks    []DownloadLink `bson:"downloadLinks" json:"downloadLinks"`
	EpisodeLinks     []EpisodeLink  `bson:"episodeLinks,omitempty" json:"episodeLinks,omitempty"`
	ReleaseDate      time.Time      `bson:"releaseDate" json:"releaseDate"`
	AllTimeDownload  int64          `bson:"alltimedownload,omitempty" json:"alltimedownload,omitempty"`
	MonthlyDownload  int64          `bson:"monthlydownload,omitempty" json:"monthlydownload,omitempty"`
	LastResetMonth   int            `bson:"lastResetMonth,omitempty" json:"-"`
	LastResetYear    int            `bson:"lastResetYear,omitempty" json:"-"`
	LastDownloadDate time.Time      `bson:"lastDownloadDate,omitempty" json:"-"`
}

// MonthlyMovie is the slimmed shape served by the top-downloads listing.
type MonthlyMovie struct {
	ID              string `bson:"_id" json:"_id"`
	Title           string `bson:"title" json:"title"`
	Image           string `bson:"image" json:"image"`
	MonthlyDownload int64  `bson:"monthlydownload" json:"monthlydownload"`
}

// PaginationInfo accompanies every listing response.
type PaginationInfo struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalMovies   int64 `json:"totalMovies"`
	MoviesPerPage int   `json:"moviesPerPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

// NewPaginationInfo computes the page summary for total results split into
// perPage-sized pages. TotalPages is ceil(total/perPage); an empty result set
// yields TotalPages 0.
func NewPaginationInfo(page, perPage int, total int64) PaginationInfo {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PaginationInfo{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalMovies:   total,
		MoviesPerPage: perPage,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
	}
}

// MovieListData is the payload of category and latest-movie listings.
type MovieListData struct {
	Movies     []Movie        `json:"movies"`
	Pagination PaginationInfo `json:"pagination"`
}

// SearchData is the payload of a search response.
type SearchData struct {
	Movies          []Movie        `json:"movies"`
	Recommendations []Movie        `json:"recommendations"`
	Pagination      PaginationInfo `json:"pagination"`
	SearchType      string         `json:"searchType"`
	Query           string         `json:"query"`
}

// DownloadCountData reports the counters after an increment.
type DownloadCountData struct {
	AllTimeDownload int64 `json:"alltimedownload"`
	MonthlyDownload int64 `json:"monthlydownload"`
}
