package dbmongo

import (
	"context"
	"fmt"
	"strings"

	"gofun/internal/common"
	"gofun/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TagIndex is a Mongo text index over the title and tags of original funs.
type TagIndex struct {
	coll    *mongo.Collection
	perPage int
}

var _ common.SearchIndex = (*TagIndex)(nil)

type indexedFun struct {
	FunID int64    `bson:"_id"`
	Type  int      `bson:"type"`
	Title string   `bson:"title"`
	Tags  []string `bson:"tags"`
}

func NewTagIndex(mc *MongoClient, cfg *config.Config) *TagIndex {
	perPage := cfg.Ranking.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &TagIndex{coll: mc.SearchCollection(), perPage: perPage}
}

// EnsureIndexes creates the text and type indexes. Safe to call on every start.
func (ti *TagIndex) EnsureIndexes(ctx context.Context) error {
	_, err := ti.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "tags", Value: "text"}},
			Options: options.Index().SetName("title_tags_text").SetWeights(bson.D{{Key: "tags", Value: 2}, {Key: "title", Value: 1}}),
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create search indexes: %w", err)
	}
	return nil
}

func (ti *TagIndex) SearchIDs(ctx context.Context, query string, types []common.ContentType, page int) ([]int64, error) {
	ids := []int64{}
	terms := searchTerms(query)
	if terms == "" || (types != nil && len(types) == 0) {
		return ids, nil
	}
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * ti.perPage)).
		SetLimit(int64(ti.perPage))

	cursor, err := ti.coll.Find(ctx, searchFilter(terms, types), opts)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", terms, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var hit indexedFun
		if err := cursor.Decode(&hit); err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		ids = append(ids, hit.FunID)
	}
	return ids, cursor.Err()
}

func (ti *TagIndex) Index(ctx context.Context, doc common.SearchDocument) error {
	_, err := ti.coll.ReplaceOne(ctx,
		bson.M{"_id": doc.FunID},
		toIndexed(doc),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("index fun %d: %w", doc.FunID, err)
	}
	return nil
}

func (ti *TagIndex) Remove(ctx context.Context, funID int64) error {
	if _, err := ti.coll.DeleteOne(ctx, bson.M{"_id": funID}); err != nil {
		return fmt.Errorf("remove fun %d: %w", funID, err)
	}
	return nil
}

func toIndexed(doc common.SearchDocument) indexedFun {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return indexedFun{FunID: doc.FunID, Type: doc.Type.Index(), Title: doc.Title, Tags: tags}
}

// searchTerms turns a comma separated tag query into a $text search string.
func searchTerms(query string) string {
	return strings.Join(common.NormalizeTags([]string{query}), " ")
}

func searchFilter(terms string, types []common.ContentType) bson.M {
	filter := bson.M{"$text": bson.M{"$search": terms}}
	if types != nil {
		indexes := make([]int, 0, len(types))
		for _, t := range types {
			indexes = append(indexes, t.Index())
		}
		filter["type"] = bson.M{"$in": indexes}
	}
	return filter
}
