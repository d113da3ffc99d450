package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tieubaoca/ai-tutor-be/database"
	"github.com/tieubaoca/ai-tutor-be/types"
)

// memObjectStore is an in-memory database.ObjectStore for tests.
type memObject struct {
	data        []byte
	contentType string
}

type memObjectStore struct {
	buckets map[string]map[string]memObject
	listErr error
}

func newMemObjectStore(buckets ...string) *memObjectStore {
	s := &memObjectStore{buckets: make(map[string]map[string]memObject)}
	for _, bucket := range buckets {
		s.buckets[bucket] = make(map[string]memObject)
	}
	return s
}

func (s *memObjectStore) PutObject(_ context.Context, bucket, key string, body []byte, contentType string) error {
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string]memObject)
	}
	s.buckets[bucket][key] = memObject{
		data:        append([]byte(nil), body...),
		contentType: contentType,
	}
	return nil
}

func (s *memObjectStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", database.ErrObjectNotFound, bucket, key)
	}
	return append([]byte(nil), obj.data...), nil
}

func (s *memObjectStore) ListObjects(_ context.Context, bucket, prefix, delimiter string, maxKeys int32) (*database.ListResult, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	keys := make([]string, 0, len(s.buckets[bucket]))
	for key := range s.buckets[bucket] {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &database.ListResult{}
	seenPrefixes := make(map[string]bool)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				commonPrefix := prefix + rest[:idx+len(delimiter)]
				if !seenPrefixes[commonPrefix] {
					seenPrefixes[commonPrefix] = true
					result.CommonPrefixes = append(result.CommonPrefixes, commonPrefix)
				}
				continue
			}
		}
		result.Entries = append(result.Entries, database.ObjectEntry{
			Key:  key,
			Size: int64(len(s.buckets[bucket][key].data)),
		})
		if maxKeys > 0 && int32(len(result.Entries)) >= maxKeys {
			break
		}
	}
	return result, nil
}

func (s *memObjectStore) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	obj, ok := s.buckets[srcBucket][srcKey]
	if !ok {
		return fmt.Errorf("%w: %s/%s", database.ErrObjectNotFound, srcBucket, srcKey)
	}
	return s.PutObject(ctx, dstBucket, dstKey, obj.data, obj.contentType)
}

func (s *memObjectStore) DeleteObject(_ context.Context, bucket, key string) error {
	delete(s.buckets[bucket], key)
	return nil
}

func (s *memObjectStore) has(bucket, key string) bool {
	_, ok := s.buckets[bucket][key]
	return ok
}

// fakeAIService replays a script of completion replies in call order.
type aiReply struct {
	text string
	err  error
}

type fakeAIService struct {
	script []aiReply
	calls  [][]types.Message
	opts   []types.ChatOptions
}

func (f *fakeAIService) Chat(ctx context.Context, messages []types.Message) (string, error) {
	return f.ChatWithOptions(ctx, messages, types.ChatOptions{})
}

func (f *fakeAIService) ChatWithOptions(_ context.Context, messages []types.Message, opts types.ChatOptions) (string, error) {
	f.calls = append(f.calls, append([]types.Message(nil), messages...))
	f.opts = append(f.opts, opts)
	if len(f.script) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := f.script[0]
	f.script = f.script[1:]
	return reply.text, reply.err
}

// fakeConversationRepo keeps session logs in memory.
type fakeConversationRepo struct {
	logs  map[string][]types.Message
	saves int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{logs: make(map[string][]types.Message)}
}

func (f *fakeConversationRepo) GetMessages(_ context.Context, sessionID string) ([]types.Message, error) {
	return append([]types.Message(nil), f.logs[sessionID]...), nil
}

func (f *fakeConversationRepo) SaveMessages(_ context.Context, sessionID string, messages []types.Message) error {
	f.logs[sessionID] = append([]types.Message(nil), messages...)
	f.saves++
	return nil
}

// fakeParseService returns a canned parse result.
type fakeParseService struct {
	result   *types.ParseResult
	err      error
	lastPath string
}

func (f *fakeParseService) Parse(_ context.Context, filePath string) (*types.ParseResult, error) {
	f.lastPath = filePath
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
