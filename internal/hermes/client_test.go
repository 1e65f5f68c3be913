package hermes

import (
	"strings"
	"testing"
)

func TestNATSClientPublishNamesSubjectOnEncodeError(t *testing.T) {
	c := &NATSClient{}
	err := c.Publish(SubjectWorkupReady("a-1"), make(chan int))
	if err == nil {
		t.Fatal("expected encode error")
	}
	if !strings.Contains(err.Error(), "workup.sufficiency.a-1.ready") {
		t.Errorf("error %q does not name the subject", err)
	}
}
