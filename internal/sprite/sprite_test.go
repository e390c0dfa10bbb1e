package sprite

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func TestProcedural_Load(t *testing.T) {
	for _, pose := range Poses {
		img, err := Procedural{}.Load(context.Background(), pose)
		if err != nil {
			t.Fatalf("load %s: %v", pose, err)
		}
		if b := img.Bounds(); b.Dx() != figureW || b.Dy() != figureH {
			t.Errorf("pose %s: expected %dx%d, got %v", pose, figureW, figureH, b)
		}
	}

	if _, err := (Procedural{}).Load(context.Background(), Pose("jump")); !errors.Is(err, ErrUnknownPose) {
		t.Errorf("expected ErrUnknownPose, got %v", err)
	}
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 20, 40))
	img.Set(1, 1, color.Black)

	f, err := os.Create(filepath.Join(dir, "sprite-stand.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src := FileSource{Dir: dir}
	got, err := src.Load(context.Background(), Stand)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 40 {
		t.Errorf("unexpected bounds %v", got.Bounds())
	}

	if _, err := src.Load(context.Background(), LookLeft); err == nil {
		t.Error("expected error for missing file")
	}
}

type failing struct{}

func (failing) Load(ctx context.Context, pose Pose) (image.Image, error) {
	if pose == LookLeft {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestPreloader(t *testing.T) {
	p := Preload(context.Background(), Procedural{}, nil, Poses...)
	if err := p.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	for _, pose := range Poses {
		if _, ok := p.Get(pose); !ok {
			t.Errorf("pose %s not loaded", pose)
		}
	}

	p = Preload(context.Background(), failing{}, nil, LookLeft)
	if err := p.Wait(); err == nil {
		t.Error("expected load error")
	}
	if _, ok := p.Get(LookLeft); ok {
		t.Error("failed pose should be missing")
	}
}

// slowUnlessCancelled fails LookLeft at once and only succeeds with the other
// poses if their context survives that failure.
type slowUnlessCancelled struct{}

func (slowUnlessCancelled) Load(ctx context.Context, pose Pose) (image.Image, error) {
	if pose == LookLeft {
		return nil, errors.New("missing")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(50 * time.Millisecond):
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}
}

func TestPreloader_FailureKeepsOtherPoses(t *testing.T) {
	p := Preload(context.Background(), slowUnlessCancelled{}, nil, Poses...)

	err := p.Wait()
	if err == nil {
		t.Fatal("expected load error")
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("expected 1 failure, got %d: %v", n, err)
	}
	for _, pose := range []Pose{Stand, LookRight} {
		if _, ok := p.Get(pose); !ok {
			t.Errorf("pose %s dropped after another pose failed", pose)
		}
	}
	if _, ok := p.Get(LookLeft); ok {
		t.Error("failed pose should be missing")
	}
}
