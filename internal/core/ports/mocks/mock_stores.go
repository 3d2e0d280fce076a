package mocks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

// --- MockCatalog ---

// MockCatalog is an in-memory Catalog for testing
type MockCatalog struct {
	mu      sync.RWMutex
	entries []domain.AssetEntry
	tables  map[domain.Store]map[string]string
}

func NewMockCatalog(entries ...domain.AssetEntry) *MockCatalog {
	return &MockCatalog{
		entries: entries,
		tables: map[domain.Store]map[string]string{
			domain.StoreCDN:  {},
			domain.StoreBlob: {},
		},
	}
}

func (m *MockCatalog) ListAll() []domain.AssetEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.AssetEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockCatalog) Find(key string) (domain.AssetEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Key == key {
			return e, true
		}
	}
	return domain.AssetEntry{}, false
}

func (m *MockCatalog) Addresses(store domain.Store) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.tables[store]))
	for k, v := range m.tables[store] {
		out[k] = v
	}
	return out
}

// SetAddress records a known URL for key in store
func (m *MockCatalog) SetAddress(store domain.Store, key, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[store][key] = url
}

// --- MockMediaStore ---

type MockMediaStore struct {
	mu         sync.Mutex
	calls      []string
	listCalls  []string
	shouldFail bool
	failError  error
	assets     map[string][]ports.RemoteAsset
	listErrors map[string]error
	cloudName  string
}

func NewMockMediaStore() *MockMediaStore {
	return &MockMediaStore{
		assets:     make(map[string][]ports.RemoteAsset),
		listErrors: make(map[string]error),
		cloudName:  "demo",
	}
}

func (m *MockMediaStore) Upload(ctx context.Context, localPath string, opts ports.UploadOptions) (*ports.RemoteAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts.PublicID)
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("upload failed for %s", opts.PublicID)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}
	return &ports.RemoteAsset{
		PublicID:  opts.PublicID,
		SecureURL: fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/%s.mp4", m.cloudName, opts.PublicID),
		Bytes:     info.Size(),
	}, nil
}

func (m *MockMediaStore) List(ctx context.Context, opts ports.ListOptions) ([]ports.RemoteAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, opts.Prefix)
	if err, ok := m.listErrors[opts.Prefix]; ok {
		return nil, err
	}

	var out []ports.RemoteAsset
	for prefix, assets := range m.assets {
		if strings.HasPrefix(prefix, opts.Prefix) {
			out = append(out, assets...)
		}
	}
	if opts.Max > 0 && len(out) > opts.Max {
		out = out[:opts.Max]
	}
	return out, nil
}

// AddRemote registers a remote asset under its folder
func (m *MockMediaStore) AddRemote(folder string, asset ports.RemoteAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[folder] = append(m.assets[folder], asset)
}

// SetListError makes List fail for one prefix
func (m *MockMediaStore) SetListError(prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErrors[prefix] = err
}

func (m *MockMediaStore) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockMediaStore) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockMediaStore) GetListCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.listCalls))
	copy(calls, m.listCalls)
	return calls
}

func (m *MockMediaStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.listCalls = nil
	m.shouldFail = false
	m.failError = nil
}

// --- MockBlobStore ---

// MockBlobStore keeps written objects in memory. URLs are a pure function of the path.
type MockBlobStore struct {
	mu         sync.Mutex
	calls      []string
	shouldFail bool
	failError  error
	objects    map[string][]byte
	baseURL    string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		objects: make(map[string][]byte),
		baseURL: "https://store.public.blob.vercel-storage.com",
	}
}

func (m *MockBlobStore) Put(ctx context.Context, path string, data []byte, opts ports.PutOptions) (*ports.PutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("put failed for %s", path)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[path] = buf

	return &ports.PutResult{URL: m.baseURL + "/" + path, Pathname: path}, nil
}

// Object returns the bytes stored at path
func (m *MockBlobStore) Object(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[path]
	return b, ok
}

func (m *MockBlobStore) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockBlobStore) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockBlobStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.shouldFail = false
	m.failError = nil
	m.objects = make(map[string][]byte)
}

// --- MockFetcher ---

type mockResponse struct {
	data   []byte
	status int
}

// MockFetcher serves canned responses by URL; unknown URLs answer 404
type MockFetcher struct {
	mu         sync.Mutex
	calls      []string
	shouldFail bool
	failError  error
	responses  map[string]mockResponse
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{responses: make(map[string]mockResponse)}
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (*ports.FetchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("fetch failed for %s", url)
	}

	resp, ok := m.responses[url]
	if !ok {
		resp = mockResponse{status: http.StatusNotFound}
	}
	return &ports.FetchResult{
		Data:       resp.data,
		StatusCode: resp.status,
		Status:     http.StatusText(resp.status),
	}, nil
}

// SetResponse registers what Fetch returns for url
func (m *MockFetcher) SetResponse(url string, status int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = mockResponse{data: data, status: status}
}

func (m *MockFetcher) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockFetcher) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.shouldFail = false
	m.failError = nil
}

// --- MockEncoder ---

// MockEncoder writes a fixed number of bytes to the output path.
// When failing it still leaves a partial output behind, like a crashed encoder would.
type MockEncoder struct {
	mu          sync.Mutex
	calls       []string
	shouldFail  bool
	failError   error
	available   bool
	outputBytes int
}

func NewMockEncoder() *MockEncoder {
	return &MockEncoder{available: true, outputBytes: 16}
}

func (m *MockEncoder) Encode(ctx context.Context, inputPath, outputPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, inputPath)
	if m.shouldFail {
		_ = os.WriteFile(outputPath, []byte("partial"), 0644)
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("encode failed for %s", inputPath)
	}
	return os.WriteFile(outputPath, make([]byte, m.outputBytes), 0644)
}

func (m *MockEncoder) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

func (m *MockEncoder) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

func (m *MockEncoder) SetOutputBytes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputBytes = n
}

func (m *MockEncoder) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockEncoder) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockEncoder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.shouldFail = false
	m.failError = nil
	m.available = true
}

// --- MockRunLog ---

type MockRunLog struct {
	mu         sync.Mutex
	runs       []domain.RunRecord
	shouldFail bool
	failError  error
}

func NewMockRunLog() *MockRunLog {
	return &MockRunLog{}
}

func (m *MockRunLog) Append(ctx context.Context, run *domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("append failed")
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *MockRunLog) List(ctx context.Context) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RunRecord, len(m.runs))
	copy(out, m.runs)
	return out, nil
}

func (m *MockRunLog) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// --- MockSidecar ---

type MockSidecar struct {
	mu      sync.Mutex
	mapping map[string]string
	writes  int
}

func NewMockSidecar() *MockSidecar {
	return &MockSidecar{}
}

func (m *MockSidecar) Write(mapping map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.mapping = make(map[string]string, len(mapping))
	for k, v := range mapping {
		m.mapping[k] = v
	}
	return nil
}

func (m *MockSidecar) Read() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mapping == nil {
		return nil, os.ErrNotExist
	}
	out := make(map[string]string, len(m.mapping))
	for k, v := range m.mapping {
		out[k] = v
	}
	return out, nil
}

func (m *MockSidecar) Path() string {
	return "blob-urls.json"
}

// Writes returns how many times Write was called
func (m *MockSidecar) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
