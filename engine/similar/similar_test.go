package similar

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/domain"
)

type fakePoints struct {
	upserts    []*pb.UpsertPoints
	upsertErr  error
	lastSearch *pb.SearchPoints
	searchResp *pb.SearchResponse
	searchErr  error
}

func (f *fakePoints) Upsert(_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	f.upserts = append(f.upserts, in)
	return &pb.PointsOperationResponse{}, f.upsertErr
}

func (f *fakePoints) Search(_ context.Context, in *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	f.lastSearch = in
	return f.searchResp, f.searchErr
}

type fakeCollections struct {
	names   []string
	listErr error
	created []*pb.CreateCollection
}

func (f *fakeCollections) List(context.Context, *pb.ListCollectionsRequest, ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	resp := &pb.ListCollectionsResponse{}
	for _, n := range f.names {
		resp.Collections = append(resp.Collections, &pb.CollectionDescription{Name: n})
	}
	return resp, nil
}

func (f *fakeCollections) Create(_ context.Context, in *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	f.created = append(f.created, in)
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func scored(slug, name string, score float32) *pb.ScoredPoint {
	return &pb.ScoredPoint{
		Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(slug)}},
		Score: score,
		Payload: map[string]*pb.Value{
			"slug": stringValue(slug),
			"name": stringValue(name),
		},
	}
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func staticCar(t *testing.T, slug string) domain.Vehicle {
	t.Helper()
	for _, v := range catalog.Static() {
		if v.Slug == slug {
			return v
		}
	}
	t.Fatalf("no static car %s", slug)
	return domain.Vehicle{}
}

func TestVectorShape(t *testing.T) {
	v := Vector(domain.Vehicle{})
	require.Len(t, v, Dims)
	for i := range 12 {
		assert.InDelta(t, neutral, v[i], 1e-6, "feature %d", i)
	}
	for i := 12; i < Dims; i++ {
		assert.Zero(t, v[i], "one-hot %d", i)
	}

	full := Vector(staticCar(t, "porsche-911-gt3"))
	require.Len(t, full, Dims)
	for _, x := range full {
		assert.GreaterOrEqual(t, x, float32(0))
		assert.LessOrEqual(t, x, float32(1))
	}
}

func TestVectorCloseness(t *testing.T) {
	gr86 := Vector(staticCar(t, "toyota-gr86"))
	miata := Vector(staticCar(t, "mazda-mx-5-miata"))
	r8 := Vector(staticCar(t, "audi-r8"))
	assert.Greater(t, cosine(gr86, miata), cosine(gr86, r8))
}

func TestPointIDStable(t *testing.T) {
	id := PointID("bmw-m2")
	assert.Equal(t, id, PointID("bmw-m2"))
	assert.NotEqual(t, id, PointID("bmw-m3"))
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestEnsureCollection(t *testing.T) {
	cols := &fakeCollections{names: []string{DefaultCollection}}
	ix := NewWithClients(&fakePoints{}, cols, "", nil)
	require.NoError(t, ix.EnsureCollection(context.Background()))
	assert.Empty(t, cols.created)

	cols = &fakeCollections{}
	ix = NewWithClients(&fakePoints{}, cols, "cars_test", nil)
	require.NoError(t, ix.EnsureCollection(context.Background()))
	require.Len(t, cols.created, 1)
	assert.Equal(t, "cars_test", cols.created[0].GetCollectionName())
	assert.Equal(t, uint64(Dims), cols.created[0].GetVectorsConfig().GetParams().GetSize())

	cols = &fakeCollections{listErr: errors.New("rpc down")}
	ix = NewWithClients(&fakePoints{}, cols, "", nil)
	assert.Error(t, ix.EnsureCollection(context.Background()))
}

func TestIndexAndSimilar(t *testing.T) {
	pts := &fakePoints{searchResp: &pb.SearchResponse{Result: []*pb.ScoredPoint{
		scored("bmw-m2", "BMW M2", 0.99),
		scored("mazda-mx-5-miata", "Mazda MX-5 Miata", 0.97),
		scored("toyota-gr86", "Toyota GR86", 0.95),
		scored("ford-mustang-gt", "Ford Mustang GT", 0.9),
	}}}
	ix := NewWithClients(pts, &fakeCollections{}, "", nil)
	ctx := context.Background()

	require.NoError(t, ix.Index(ctx, catalog.Static()))
	require.Len(t, pts.upserts, 1)
	assert.Len(t, pts.upserts[0].GetPoints(), len(catalog.Static()))
	assert.True(t, ix.Indexed("bmw-m2"))

	got, err := ix.Similar(ctx, "toyota-gr86", 2)
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Slug: "bmw-m2", Name: "BMW M2", Score: 0.99},
		{Slug: "mazda-mx-5-miata", Name: "Mazda MX-5 Miata", Score: 0.97},
	}, got)

	req := pts.lastSearch
	assert.Equal(t, uint64(2), req.GetLimit())
	assert.Len(t, req.GetVector(), Dims)
	require.Len(t, req.GetFilter().GetMustNot(), 1)
	assert.Equal(t, "toyota-gr86", req.GetFilter().GetMustNot()[0].GetField().GetMatch().GetKeyword())

	got, err = ix.Similar(ctx, "toyota-gr86", 10)
	require.NoError(t, err)
	for _, m := range got {
		assert.NotEqual(t, "toyota-gr86", m.Slug)
	}
	assert.Len(t, got, 3)
}

func TestSimilarDefaultsAndLimits(t *testing.T) {
	pts := &fakePoints{searchResp: &pb.SearchResponse{}}
	ix := NewWithClients(pts, &fakeCollections{}, "", nil)
	ctx := context.Background()
	require.NoError(t, ix.Index(ctx, []domain.Vehicle{{Slug: "bmw-m2", Name: "BMW M2"}}))

	_, err := ix.Similar(ctx, "bmw-m2", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), pts.lastSearch.GetLimit())

	_, err = ix.Similar(ctx, "bmw-m2", 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxResults), pts.lastSearch.GetLimit())
}

func TestSimilarErrors(t *testing.T) {
	pts := &fakePoints{searchErr: errors.New("unavailable")}
	ix := NewWithClients(pts, &fakeCollections{}, "", nil)
	ctx := context.Background()

	_, err := ix.Similar(ctx, "bmw-m2", 3)
	assert.ErrorIs(t, err, ErrUnknownCar)

	require.NoError(t, ix.Index(ctx, []domain.Vehicle{{Slug: "bmw-m2"}}))
	_, err = ix.Similar(ctx, "bmw-m2", 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCar)
}

func TestIndexUpsertError(t *testing.T) {
	pts := &fakePoints{upsertErr: errors.New("unavailable")}
	ix := NewWithClients(pts, &fakeCollections{}, "", nil)
	require.Error(t, ix.Index(context.Background(), []domain.Vehicle{{Slug: "bmw-m2"}}))
	assert.False(t, ix.Indexed("bmw-m2"))
	assert.NoError(t, ix.Index(context.Background(), nil))
}

func TestCloseWithoutConn(t *testing.T) {
	ix := NewWithClients(&fakePoints{}, &fakeCollections{}, "", nil)
	assert.NoError(t, ix.Close())
}
