package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService uses Cloud Translation. It translates req.Text directly and
// ignores the prompt and instructions.
type GoogleService struct {
	client *translate.Client

	once    sync.Once
	tags    map[string]language.Tag
	tagsErr error
}

func NewGoogleService(ctx context.Context, credentialsFile string) (*GoogleService, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	target, err := s.resolveTag(ctx, req.TargetLanguage)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	opts := &translate.Options{
		Source: language.English,
		Format: translate.Text,
	}
	if req.Model == "nmt" || req.Model == "base" {
		opts.Model = req.Model
	}

	translations, err := s.client.Translate(ctx, []string{req.Text}, target, opts)
	if err != nil {
		err = classifyMessage(err)
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, err
	}

	if len(translations) == 0 {
		result.Error = ErrEmptyResponse.Error()
		return result, ErrEmptyResponse
	}

	result.Text = translations[0].Text
	result.Metadata = map[string]string{"target": target.String()}
	if translations[0].Model != "" {
		result.Metadata["model"] = translations[0].Model
	}

	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	_, err := s.supported(ctx)
	return err
}

func (s *GoogleService) Close() error {
	return s.client.Close()
}

// resolveTag maps an English language name (or a BCP-47 tag) to the tag
// Cloud Translation expects.
func (s *GoogleService) resolveTag(ctx context.Context, name string) (language.Tag, error) {
	tags, err := s.supported(ctx)
	if err != nil {
		return language.Und, err
	}
	if tag, ok := tags[strings.ToLower(name)]; ok {
		return tag, nil
	}
	if tag, err := language.Parse(name); err == nil {
		return tag, nil
	}
	return language.Und, fmt.Errorf("unsupported target language %q", name)
}

func (s *GoogleService) supported(ctx context.Context) (map[string]language.Tag, error) {
	s.once.Do(func() {
		langs, err := s.client.SupportedLanguages(ctx, language.English)
		if err != nil {
			s.tagsErr = fmt.Errorf("failed to list supported languages: %w", err)
			return
		}
		s.tags = make(map[string]language.Tag, len(langs))
		for _, l := range langs {
			s.tags[strings.ToLower(l.Name)] = l.Tag
		}
	})
	return s.tags, s.tagsErr
}
