package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
)

// HTTPProxy serves API Gateway HTTP API requests; chiadapter.ChiLambdaV2 satisfies it
type HTTPProxy interface {
	ProxyWithContextV2(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)
}

// ErrUnknownEvent is returned for payloads that are neither EventBridge events nor HTTP requests
var ErrUnknownEvent = errors.New("cannot identify type of request")

// Dispatcher routes a raw invocation to the handler for its trigger type
type Dispatcher struct {
	events *EventHandler
	http   HTTPProxy
}

var _ awslambda.Handler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. httpProxy may be nil when the function
// is only wired to EventBridge.
func NewDispatcher(eventHandler *EventHandler, httpProxy HTTPProxy) *Dispatcher {
	return &Dispatcher{
		events: eventHandler,
		http:   httpProxy,
	}
}

// Invoke implements the aws-lambda-go Handler interface
func (d *Dispatcher) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	event, err := identifyAndUnmarshal(payload)
	if err != nil {
		return nil, err
	}

	switch e := event.(type) {
	case *events.CloudWatchEvent:
		resp, err := d.events.HandleEvent(ctx, *e)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)

	case *events.APIGatewayV2HTTPRequest:
		if d.http == nil {
			return nil, fmt.Errorf("%w: http requests are not enabled", ErrUnknownEvent)
		}
		resp, err := d.http.ProxyWithContextV2(ctx, *e)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	}

	return nil, ErrUnknownEvent
}

// eventTypeProbe holds just enough fields to tell the trigger types apart
type eventTypeProbe struct {
	DetailType     string `json:"detail-type"` // CloudWatchEvent
	RequestContext struct {
		HTTP struct {
			Method string `json:"method"` // APIGatewayV2HTTPRequest
		} `json:"http"`
	} `json:"requestContext"`
}

func identifyAndUnmarshal(payload []byte) (interface{}, error) {
	var probe eventTypeProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("request unmarshal: %w", err)
	}

	var target interface{}
	switch {
	case probe.DetailType != "":
		target = &events.CloudWatchEvent{}
	case probe.RequestContext.HTTP.Method != "":
		target = &events.APIGatewayV2HTTPRequest{}
	default:
		return nil, ErrUnknownEvent
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return nil, fmt.Errorf("request unmarshal: %w", err)
	}
	return target, nil
}
