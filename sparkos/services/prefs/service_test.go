package prefs

import (
	"path/filepath"
	"testing"

	"sparkdice/sparkos/kernel"
	"sparkdice/sparkos/prefs"
	"sparkdice/sparkos/proto"
)

func TestServiceWritesThroughStore(t *testing.T) {
	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	k := kernel.New()
	in := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	svc := New(in, logEP, store)
	k.AddTask(svc)

	for _, kv := range [][2]string{{prefs.KeyTheme, "neon"}, {prefs.KeyLastResult, "6"}} {
		payload, ok := proto.PrefSetPayload(kv[0], kv[1])
		if !ok {
			t.Fatalf("encode %s", kv[0])
		}
		k.Post(in, uint16(proto.MsgPrefSet), payload)
	}
	k.Post(in, uint16(proto.MsgPrefSet), []byte{0})
	k.RunUntilIdle(16)

	if svc.Queued() != 2 || svc.Dropped() != 0 {
		t.Fatalf("queued=%d dropped=%d", svc.Queued(), svc.Dropped())
	}
	store.Flush()
	if v, err := store.Get(prefs.KeyTheme); err != nil || v != "neon" {
		t.Fatalf("theme = %q, %v", v, err)
	}
	if v, err := store.Get(prefs.KeyLastResult); err != nil || v != "6" {
		t.Fatalf("last_result = %q, %v", v, err)
	}
}

func TestServiceWithoutStore(t *testing.T) {
	k := kernel.New()
	in := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	svc := New(in, kernel.Capability{}, nil)
	k.AddTask(svc)
	payload, _ := proto.PrefSetPayload(prefs.KeySound, "true")
	k.Post(in, uint16(proto.MsgPrefSet), payload)
	k.RunUntilIdle(8)
	if svc.Queued() != 0 {
		t.Fatal("queued a write without a store")
	}
}
