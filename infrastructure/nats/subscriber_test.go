package nats

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"todo-api/domain/models"
)

func TestHandleMessageDispatches(t *testing.T) {
	s := NewSubscriber(nil, "")

	var got []string
	s.OnEvent(func(subject string, e *models.TodoEvent) {
		got = append(got, subject+":"+e.TodoID)
	})
	s.OnEvent(func(string, *models.TodoEvent) { panic("boom") })
	s.OnEvent(func(subject string, e *models.TodoEvent) {
		got = append(got, "after-panic:"+string(e.Type))
	})

	data, _ := json.Marshal(models.TodoEvent{Type: models.TodoEventCreated, TodoID: "abc"})
	s.handleMessage(&nats.Msg{Subject: "todos.created", Data: data})
	s.handleMessage(&nats.Msg{Subject: "todos.created", Data: []byte("not json")})

	want := []string{"todos.created:abc", "after-panic:created"}
	if len(got) != len(want) {
		t.Fatalf("handled %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("handled[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStopWithoutStart(t *testing.T) {
	s := NewSubscriber(nil, "todos")
	if err := s.Stop(); err != nil || s.IsRunning() {
		t.Errorf("Stop = %v, running %v", err, s.IsRunning())
	}
}

// Runs only when TEST_NATS_URL points at a server.
func TestSubscriberReceives(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}
	client, err := NewClient(ClientConfig{URL: url, Name: "subscriber-test"})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	s := NewSubscriber(client.Conn(), "sub_test")
	received := make(chan *models.TodoEvent, 1)
	s.OnEvent(func(_ string, e *models.TodoEvent) { received <- e })
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	data, _ := json.Marshal(models.TodoEvent{Type: models.TodoEventDeleted, TodoID: "xyz"})
	if err := client.Conn().Publish("sub_test.deleted", data); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-received:
		if e.TodoID != "xyz" || e.Type != models.TodoEventDeleted {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}
