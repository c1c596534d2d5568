package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, Role: "teacher"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != id || rd.Role != "teacher" {
		t.Fatalf("unexpected request data: %#v", rd)
	}
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("expected nil request data on bare context")
	}
}

func TestCorrelation(t *testing.T) {
	if _, ok := CorrelationFrom(context.Background()); ok {
		t.Fatalf("bare context must carry no correlation")
	}
	ctx := WithCorrelation(nil, Correlation{RequestID: "r1", TraceID: "t1"})
	c, ok := CorrelationFrom(ctx)
	if !ok || c.RequestID != "r1" || c.TraceID != "t1" {
		t.Fatalf("unexpected correlation: %#v %v", c, ok)
	}
}
