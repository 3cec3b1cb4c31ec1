package similar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/pkg/fn"
)

// ErrUnknownCar is returned by Similar for a slug that was never indexed.
var ErrUnknownCar = errors.New("similar: car not indexed")

// DefaultCollection is the Qdrant collection holding car vectors.
const DefaultCollection = "carhub_cars"

// MaxResults caps k in Similar.
const MaxResults = 12

// PointsAPI is the subset of the Qdrant points service the index uses.
type PointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
}

// CollectionsAPI is the subset of the Qdrant collections service the index uses.
type CollectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// Match is one similar car.
type Match struct {
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// Index stores car vectors in a Qdrant collection. Vectors of indexed cars
// are also kept in memory so Similar can query by slug.
type Index struct {
	conn        *grpc.ClientConn
	points      PointsAPI
	collections CollectionsAPI
	collection  string
	logger      *slog.Logger

	mu      sync.RWMutex
	vectors map[string][]float32
}

// New dials Qdrant's gRPC endpoint at addr.
func New(addr, collection string, logger *slog.Logger) (*Index, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("similar: dial qdrant %s: %w", addr, err)
	}
	ix := NewWithClients(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), collection, logger)
	ix.conn = conn
	return ix, nil
}

// NewWithClients builds an index over existing clients.
func NewWithClients(points PointsAPI, collections CollectionsAPI, collection string, logger *slog.Logger) *Index {
	if collection == "" {
		collection = DefaultCollection
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		points:      points,
		collections: collections,
		collection:  collection,
		logger:      logger,
		vectors:     make(map[string][]float32),
	}
}

// Close closes the gRPC connection, if the index owns one.
func (ix *Index) Close() error {
	if ix.conn == nil {
		return nil
	}
	return ix.conn.Close()
}

// EnsureCollection creates the collection if it does not exist.
func (ix *Index) EnsureCollection(ctx context.Context) error {
	list, err := ix.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("similar: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == ix.collection {
			return nil
		}
	}
	_, err = ix.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: ix.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{Size: Dims, Distance: pb.Distance_Cosine},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("similar: create collection %s: %w", ix.collection, err)
	}
	ix.logger.Info("created vector collection", "collection", ix.collection, "dims", Dims)
	return nil
}

// Index upserts vectors for cars.
func (ix *Index) Index(ctx context.Context, cars []domain.Vehicle) error {
	if len(cars) == 0 {
		return nil
	}
	vecs := fn.Map(cars, Vector)
	points := make([]*pb.PointStruct, len(cars))
	vectors := make(map[string][]float32, len(cars))
	for i, v := range cars {
		vec := vecs[i]
		vectors[v.Slug] = vec
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(v.Slug)}},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vec}},
			},
			Payload: map[string]*pb.Value{
				"slug":  stringValue(v.Slug),
				"name":  stringValue(v.Name),
				"brand": stringValue(v.Brand),
			},
		}
	}

	wait := true
	if _, err := ix.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: ix.collection,
		Wait:           &wait,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("similar: upsert %d points: %w", len(points), err)
	}

	ix.mu.Lock()
	for slug, vec := range vectors {
		ix.vectors[slug] = vec
	}
	ix.mu.Unlock()
	return nil
}

// Indexed reports whether slug has a vector.
func (ix *Index) Indexed(slug string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.vectors[slug]
	return ok
}

// Similar returns up to k cars closest to slug, never slug itself.
func (ix *Index) Similar(ctx context.Context, slug string, k int) ([]Match, error) {
	ix.mu.RLock()
	vec, ok := ix.vectors[slug]
	ix.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCar, slug)
	}
	if k <= 0 {
		k = 3
	}
	k = min(k, MaxResults)

	resp, err := ix.points.Search(ctx, &pb.SearchPoints{
		CollectionName: ix.collection,
		Vector:         vec,
		Limit:          uint64(k),
		Filter:         &pb.Filter{MustNot: []*pb.Condition{slugMatch(slug)}},
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("similar: search %s: %w", slug, err)
	}

	out := make([]Match, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		p := r.GetPayload()
		m := Match{
			Slug:  p["slug"].GetStringValue(),
			Name:  p["name"].GetStringValue(),
			Score: r.GetScore(),
		}
		if m.Slug == "" || m.Slug == slug {
			continue
		}
		out = append(out, m)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func slugMatch(slug string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   "slug",
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: slug}},
			},
		},
	}
}
