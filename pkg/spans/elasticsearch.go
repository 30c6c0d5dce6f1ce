package spans

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tracebench/pkg/conf"
)

var (
	elasticsearchAddress = conf.NewStringFlag("es_addr", "Address of the Elasticsearch endpoint backing the tracing backend", "http://127.0.0.1:9200")
	elasticsearchIndex   = conf.NewStringFlag("es_span_index", "Index pattern holding the tracing backend's spans", "jaeger-span-*")
)

// maxSpansPerQuery bounds one result page. A five second trace at the default
// rate yields 500 spans, far below this.
const maxSpansPerQuery = 10000

// ElasticsearchConfig encodes the settings for connecting to the
// Elasticsearch storage of the tracing backend.
type ElasticsearchConfig struct {
	Address string
	Index   string
}

// DefaultElasticsearchConfig applies the Elasticsearch settings from command
// line flags and environment variables.
func DefaultElasticsearchConfig() ElasticsearchConfig {
	return ElasticsearchConfig{
		Address: elasticsearchAddress.Value(),
		Index:   elasticsearchIndex.Value(),
	}
}

// ElasticsearchReader reads span start times from Jaeger's Elasticsearch storage.
type ElasticsearchReader struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchReader returns a Reader over the tracing backend's span index.
func NewElasticsearchReader(config ElasticsearchConfig) (*ElasticsearchReader, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.Address},
	})
	if err != nil {
		return nil, errors.Wrapf(ErrQuery, "cannot create Elasticsearch client for %s: %v", config.Address, err)
	}

	return &ElasticsearchReader{client: client, index: config.Index}, nil
}

// buildStartTimesQuery filters spans on service, operation and a strict lower
// start-time bound, sorted ascending by start time. Jaeger stores startTime in
// microseconds.
func buildStartTimesQuery(service, operation string, startAfter int64) (string, error) {
	query := map[string]interface{}{
		"size": maxSpansPerQuery,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"process.serviceName": service}},
					map[string]interface{}{"term": map[string]interface{}{"operationName": operation}},
					map[string]interface{}{"range": map[string]interface{}{"startTime": map[string]interface{}{"gt": startAfter}}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"startTime": map[string]interface{}{"order": "asc"}},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return "", errors.Wrap(err, "cannot marshal span query")
	}
	return string(body), nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				StartTime int64 `json:"startTime"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// StartTimes returns the microsecond start times of all matching spans.
func (r *ElasticsearchReader) StartTimes(ctx context.Context, service, operation string, startAfter int64) ([]int64, error) {
	log.Debugf("querying Elasticsearch for spans of %s/%s after %d", service, operation, startAfter)

	query, err := buildStartTimesQuery(service, operation, startAfter)
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return nil, errors.Wrapf(ErrQuery, "executing span search: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.Wrapf(ErrQuery, "span search returned: %s", res.String())
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, errors.Wrapf(ErrQuery, "decoding span search response: %v", err)
	}

	var startTimes []int64
	for _, hit := range response.Hits.Hits {
		startTimes = append(startTimes, hit.Source.StartTime)
	}

	return startTimes, nil
}
