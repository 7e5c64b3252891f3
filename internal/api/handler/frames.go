package handler

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/insighted-labs/presence/internal/camera"
)

// maxFrameBytes bounds the accepted frame payload.
const maxFrameBytes = 10 << 20

// FramePublisher feeds decoded frames into the verification pipeline.
type FramePublisher interface {
	Publish(f *camera.Frame)
}

// FrameHandler accepts frames over HTTP from a capture process that has
// no direct access to the pipeline, such as a companion app pushing
// camera output to the device.
type FrameHandler struct {
	frames FramePublisher
	logger *slog.Logger
}

func NewFrameHandler(frames FramePublisher, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{frames: frames, logger: logger}
}

// Ingest POST /v1/frames - decode an encoded image and hand it to the pipeline
func (h *FrameHandler) Ingest(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty frame body")
	}
	if len(body) > maxFrameBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "frame too large")
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "undecodable frame")
	}

	rotation := c.QueryInt("rotation", 0)
	h.frames.Publish(camera.NewFrame(img, camera.FormatRGBA, rotation, nil))

	return c.SendStatus(fiber.StatusAccepted)
}
