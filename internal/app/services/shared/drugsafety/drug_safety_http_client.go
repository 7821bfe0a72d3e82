package drugsafety

import (
	"context"
	"fmt"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/pkg/constvars"
	"medledger-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	drugSafetyHttpClientInstance contracts.DrugSafetyClient
	onceDrugSafetyHttpClient     sync.Once
)

type drugSafetyHttpClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Log        *zap.Logger
}

// NewDrugSafetyHttpClient talks to the external interaction knowledge
// base. The service only enforces the override protocol on top of
// whatever pairs the upstream reports.
func NewDrugSafetyHttpClient(baseUrl string, timeout time.Duration, logger *zap.Logger) contracts.DrugSafetyClient {
	onceDrugSafetyHttpClient.Do(func() {
		client := &drugSafetyHttpClient{
			BaseUrl:    baseUrl + "/interactions",
			HttpClient: &http.Client{Timeout: timeout},
			Log:        logger,
		}
		drugSafetyHttpClientInstance = client
	})
	return drugSafetyHttpClientInstance
}

func (c *drugSafetyHttpClient) CheckInteractions(ctx context.Context, encounterID, serviceItemID string) ([]contracts.InteractionWarning, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("drugSafetyHttpClient.CheckInteractions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, encounterID),
	)

	endpoint := fmt.Sprintf("%s?encounter_id=%s&service_item_id=%s",
		c.BaseUrl, url.QueryEscape(encounterID), url.QueryEscape(serviceItemID))

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		c.Log.Error("drugSafetyHttpClient.CheckInteractions error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("drugSafetyHttpClient.CheckInteractions error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrUpstreamBadStatus("drug safety knowledge base")
	}

	var warnings []contracts.InteractionWarning
	if err := json.NewDecoder(resp.Body).Decode(&warnings); err != nil {
		c.Log.Error("drugSafetyHttpClient.CheckInteractions error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, "drug safety knowledge base")
	}

	c.Log.Info("drugSafetyHttpClient.CheckInteractions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingInteractionPairCountKey, len(warnings)),
	)
	return warnings, nil
}
