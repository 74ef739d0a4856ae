package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/google/uuid"
)

// ImageStore keeps uploaded bytes in process memory.
type ImageStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *ImageStore) Upload(_ context.Context, folder string, file domain.ImageFile) (domain.Image, error) {
	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+path.Ext(file.Name))

	s.mu.Lock()
	s.objects[key] = append([]byte(nil), file.Data...)
	s.mu.Unlock()

	return domain.Image{RemoteID: key, URL: fmt.Sprintf("%s/%s", s.baseURL, key)}, nil
}

func (s *ImageStore) DeleteByPrefix(_ context.Context, prefix string) error {
	dir := strings.Trim(prefix, "/") + "/"

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, dir) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *ImageStore) DeleteByIDs(_ context.Context, remoteIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range remoteIDs {
		delete(s.objects, id)
	}
	return nil
}

// Keys lists the stored object keys under folder, sorted.
func (s *ImageStore) Keys(folder string) []string {
	dir := strings.Trim(folder, "/") + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, dir) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
