package sweep

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/omoide/internal/model"
	"github.com/hitoshi/omoide/internal/repository"
	"github.com/hitoshi/omoide/internal/storage"
)

type mockArticleRepo struct {
	listContentsFn func(ctx context.Context) ([]string, error)
}

func (m *mockArticleRepo) Create(ctx context.Context, article *model.Article) error { return nil }
func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return nil, nil
}
func (m *mockArticleRepo) List(ctx context.Context, cursor time.Time, limit int) ([]model.ArticleWithAuthor, error) {
	return nil, nil
}
func (m *mockArticleRepo) Update(ctx context.Context, id, title, content string) error { return nil }
func (m *mockArticleRepo) Delete(ctx context.Context, id string) error                 { return nil }
func (m *mockArticleRepo) ListContents(ctx context.Context) ([]string, error) {
	if m.listContentsFn != nil {
		return m.listContentsFn(ctx)
	}
	return nil, nil
}

type mockAssetRepo struct {
	listOlderThanFn func(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error)
	findByKeyFn     func(ctx context.Context, key string) (*model.MediaAsset, error)
	deletedKeys     []string
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *model.MediaAsset) error { return nil }
func (m *mockAssetRepo) FindByKey(ctx context.Context, key string) (*model.MediaAsset, error) {
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, key)
	}
	return nil, nil
}
func (m *mockAssetRepo) ListOlderThan(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error) {
	if m.listOlderThanFn != nil {
		return m.listOlderThanFn(ctx, cutoff)
	}
	return nil, nil
}
func (m *mockAssetRepo) DeleteByKey(ctx context.Context, key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	return nil
}

var _ repository.ArticleRepository = (*mockArticleRepo)(nil)
var _ repository.MediaAssetRepository = (*mockAssetRepo)(nil)

// memBlobStore はテスト用のインメモリブロブストア。
type memBlobStore struct {
	blobs    map[string][]byte
	modTimes map[string]time.Time
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{
		blobs:    make(map[string][]byte),
		modTimes: make(map[string]time.Time),
	}
}

// put はブロブを指定の更新時刻付きで直接投入する。
func (s *memBlobStore) put(key string, data []byte, modTime time.Time) {
	s.blobs[key] = data
	s.modTimes[key] = modTime
}

func (s *memBlobStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.put(key, data, time.Now())
	return int64(len(data)), nil
}

func (s *memBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Delete(ctx context.Context, key string) error {
	delete(s.blobs, key)
	delete(s.modTimes, key)
	return nil
}

func (s *memBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memBlobStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	t, ok := s.modTimes[key]
	if !ok {
		return time.Time{}, storage.ErrBlobNotFound
	}
	return t, nil
}

type mockSweepMetrics struct {
	sweptCounts []int
}

func (m *mockSweepMetrics) RecordAssetsSwept(count int) {
	m.sweptCounts = append(m.sweptCounts, count)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepJob_DeletesUnreferencedAssets(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)

	articleRepo := &mockArticleRepo{
		listContentsFn: func(ctx context.Context) ([]string, error) {
			return []string{
				`<p>写真です。<img src="http://localhost:8080/media/images/kept-1"></p>`,
			}, nil
		},
	}
	assetRepo := &mockAssetRepo{
		listOlderThanFn: func(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error) {
			return []model.MediaAsset{
				{Key: "images/kept-1", CreatedAt: old},
				{Key: "images/orphan-1", CreatedAt: old},
			}, nil
		},
	}
	blobs := newMemBlobStore()
	blobs.put("images/kept-1", []byte("a"), old)
	blobs.put("images/orphan-1", []byte("b"), old)
	metrics := &mockSweepMetrics{}

	job := NewJob(articleRepo, assetRepo, blobs, metrics, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(assetRepo.deletedKeys) != 1 || assetRepo.deletedKeys[0] != "images/orphan-1" {
		t.Errorf("deleted keys = %v, want [images/orphan-1]", assetRepo.deletedKeys)
	}
	if _, ok := blobs.blobs["images/kept-1"]; !ok {
		t.Error("referenced blob should not be deleted")
	}
	if _, ok := blobs.blobs["images/orphan-1"]; ok {
		t.Error("orphan blob should be deleted")
	}
	if len(metrics.sweptCounts) != 1 || metrics.sweptCounts[0] != 1 {
		t.Errorf("swept counts = %v, want [1]", metrics.sweptCounts)
	}
}

func TestSweepJob_GracePeriodPassedToRepo(t *testing.T) {
	var gotCutoff time.Time
	assetRepo := &mockAssetRepo{
		listOlderThanFn: func(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error) {
			gotCutoff = cutoff
			return nil, nil
		},
	}

	job := NewJob(&mockArticleRepo{}, assetRepo, newMemBlobStore(), &mockSweepMetrics{}, discardLogger())
	job.GracePeriod = 6 * time.Hour

	before := time.Now()
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantAround := before.Add(-6 * time.Hour)
	if diff := gotCutoff.Sub(wantAround); diff < 0 || diff > time.Minute {
		t.Errorf("cutoff = %v, want around %v", gotCutoff, wantAround)
	}
}

func TestSweepJob_NoCandidates(t *testing.T) {
	metrics := &mockSweepMetrics{}
	job := NewJob(&mockArticleRepo{}, &mockAssetRepo{}, newMemBlobStore(), metrics, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(metrics.sweptCounts) != 1 || metrics.sweptCounts[0] != 0 {
		t.Errorf("swept counts = %v, want [0]", metrics.sweptCounts)
	}
}

func TestSweepJob_DeletesRowlessBlobs(t *testing.T) {
	// アップロードの部分失敗で残った、メタデータ行のないブロブも回収する
	blobs := newMemBlobStore()
	blobs.put("images/rowless-old", []byte("a"), time.Now().Add(-48*time.Hour))
	blobs.put("videos/rowless-old", []byte("b"), time.Now().Add(-48*time.Hour))
	metrics := &mockSweepMetrics{}

	job := NewJob(&mockArticleRepo{}, &mockAssetRepo{}, blobs, metrics, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, ok := blobs.blobs["images/rowless-old"]; ok {
		t.Error("row-less image blob should be deleted")
	}
	if _, ok := blobs.blobs["videos/rowless-old"]; ok {
		t.Error("row-less video blob should be deleted")
	}
	if len(metrics.sweptCounts) != 1 || metrics.sweptCounts[0] != 2 {
		t.Errorf("swept counts = %v, want [2]", metrics.sweptCounts)
	}
}

func TestSweepJob_RowlessBlobWithinGraceSurvives(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.put("images/rowless-new", []byte("a"), time.Now().Add(-time.Hour))

	job := NewJob(&mockArticleRepo{}, &mockAssetRepo{}, blobs, &mockSweepMetrics{}, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, ok := blobs.blobs["images/rowless-new"]; !ok {
		t.Error("row-less blob within the grace period should survive")
	}
}

func TestSweepJob_RowlessBlobWithRowIsLeftToRowPass(t *testing.T) {
	// 行があるブロブは猶予期間内のListOlderThan走査に任せ、ブロブ側の走査では消さない
	blobs := newMemBlobStore()
	blobs.put("images/with-row", []byte("a"), time.Now().Add(-48*time.Hour))

	assetRepo := &mockAssetRepo{
		findByKeyFn: func(ctx context.Context, key string) (*model.MediaAsset, error) {
			return &model.MediaAsset{Key: key, CreatedAt: time.Now()}, nil
		},
	}

	job := NewJob(&mockArticleRepo{}, assetRepo, blobs, &mockSweepMetrics{}, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, ok := blobs.blobs["images/with-row"]; !ok {
		t.Error("blob with an asset row should not be deleted by the blob scan")
	}
}

func TestSweepJob_MissingBlobStillDeletesRow(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)

	store := &failingBlobStore{inner: newMemBlobStore(), err: storage.ErrBlobNotFound}
	assetRepo := &mockAssetRepo{
		listOlderThanFn: func(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error) {
			return []model.MediaAsset{{Key: "images/gone", CreatedAt: old}}, nil
		},
	}

	job := NewJob(&mockArticleRepo{}, assetRepo, store, &mockSweepMetrics{}, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(assetRepo.deletedKeys) != 1 {
		t.Errorf("deleted keys = %v, want row deleted even when blob is missing", assetRepo.deletedKeys)
	}
}

// failingBlobStore はDeleteで固定エラーを返すブロブストア。
type failingBlobStore struct {
	inner *memBlobStore
	err   error
}

func (s *failingBlobStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	return s.inner.Save(ctx, key, r)
}

func (s *failingBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.inner.Open(ctx, key)
}

func (s *failingBlobStore) Delete(ctx context.Context, key string) error {
	return s.err
}

func (s *failingBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *failingBlobStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	return s.inner.ModTime(ctx, key)
}

func TestExtractMediaKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "画像の絶対URL",
			content: `<p><img src="http://localhost:8080/media/images/abc-123"></p>`,
			want:    []string{"images/abc-123"},
		},
		{
			name:    "画像の相対パス",
			content: `<img src="/media/images/abc-123">`,
			want:    []string{"images/abc-123"},
		},
		{
			name:    "動画のsrcとposter",
			content: `<video src="/media/videos/v1" poster="/media/images/p1"></video>`,
			want:    []string{"videos/v1", "images/p1"},
		},
		{
			name:    "sourceタグ",
			content: `<video><source src="/media/videos/v2" type="video/mp4"></video>`,
			want:    []string{"videos/v2"},
		},
		{
			name:    "外部URLは無視",
			content: `<img src="https://example.com/photo.png">`,
			want:    nil,
		},
		{
			name:    "クエリ文字列は取り除く",
			content: `<img src="/media/images/abc?w=100">`,
			want:    []string{"images/abc"},
		},
		{
			name:    "メディア参照なし",
			content: `<p>ただのテキスト</p>`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractMediaKeys(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("extractMediaKeys() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("key[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	job := NewJob(&mockArticleRepo{}, &mockAssetRepo{}, newMemBlobStore(), &mockSweepMetrics{}, discardLogger())
	scheduler := NewScheduler(job, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		scheduler.Start(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
