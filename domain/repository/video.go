package repository

import (
	"context"

	"clipcast/domain/model"
)

// IVideo is the read surface of the product's video store. Upload and
// transcoding live outside this subsystem.
type IVideo interface {
	GetByID(ctx context.Context, id int64) (*model.Video, error)
}
