package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Room=MockRoomService

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/availability"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/identity"
	"hotel/shared/timezone"
	"hotel/shared/transaction"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest, caller identity.Identity) (dto.RoomResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateRoomRequest, caller identity.Identity) (dto.RoomResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, caller identity.Identity) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string, caller identity.Identity) error
	ActiveBookings(ctx context.Context, id string, caller identity.Identity) ([]availability.BlockingBooking, error)
}

type serviceImpl struct {
	repo  repository.Room
	guard availability.Guard
	tx    transaction.Transactor
	cache cache.RedisCache
	s3    s3.S3
	cfg   *config.Config
	otel  otel.Otel
}

func New(
	repo repository.Room,
	guard availability.Guard,
	tx transaction.Transactor,
	cache cache.RedisCache,
	s3 s3.S3,
	cfg *config.Config,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:  repo,
		guard: guard,
		tx:    tx,
		cache: cache,
		s3:    s3,
		cfg:   cfg,
		otel:  otel,
	}
}

func byRoomID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func cacheKey(id string) string {
	return shared.BuildCacheKey(model.CacheKeyGet, id)
}

func ratesError() error {
	return failure.Validation( // nolint:wrapcheck
		fmt.Sprintf("daily_rate must be at least %d times hourly_rate", model.MinDailyToHourlyRatio),
		"daily_rate", "hourly_rate",
	)
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := cache.Invalidate(ctx, s.cache, cacheKey(id), s.cfg.Cache.TTL); err != nil {
		log.Warn().Err(err).Str("room_id", id).Msg("failed to invalidate room cache")
	}
}

func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	objectKey := s.s3.GetObjectNameFromURL(url)
	if objectKey == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, constant.Empty, constant.Empty, objectKey); err != nil {
		log.Warn().Err(err).Str("object", objectKey).Msg("failed to delete room image")
	}
}

// uploadImage stores the image under a fresh name keeping its extension. No image is not an error.
func (s *serviceImpl) uploadImage(ctx context.Context, header *multipart.FileHeader, file multipart.File) (string, error) {
	if header == nil || file == nil {
		return constant.Empty, nil
	}

	fileName := uuid.NewString() + filepath.Ext(header.Filename)

	url, err := s.s3.UploadFile(ctx, constant.Empty, model.EntityName, file, header, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, fmt.Errorf("failed to upload room image: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) lockRoom(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Room, error) {
	room, err := s.repo.GetForUpdateTx(ctx, sqltx, byRoomID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest, caller identity.Identity) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can manage rooms") // nolint:wrapcheck
	}

	if !model.RatesConsistent(req.DailyRate, req.HourlyRate) {
		return res, ratesError()
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(req.RoomNumber, model.FieldRoomNumber, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return res, fmt.Errorf("failed to check room number: %w", err)
	}

	if exist {
		return res, failure.Conflict("room number " + req.RoomNumber + " already exists") // nolint:wrapcheck
	}

	imageURL, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return res, err
	}

	room := req.ToModel(uuid.NewString(), caller.SubjectID, imageURL)

	if err = s.repo.Insert(ctx, room); err != nil {
		s.deleteImage(context.WithoutCancel(ctx), imageURL)

		if shared.PqErrorCode(err) == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict("room number " + req.RoomNumber + " already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	log.Info().Str("room_id", room.ID).Str("room_number", room.RoomNumber).Msg("room created")

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.ReadThrough(ctx, s.cache, cacheKey(id), s.cfg.Cache.TTL, func(ctx context.Context) (dto.RoomResponse, error) {
		return s.load(ctx, id)
	})
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	room, err := s.repo.Get(ctx, byRoomID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateRoomRequest, caller identity.Identity) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can manage rooms") // nolint:wrapcheck
	}

	imageURL, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return res, err
	}

	var room model.Room

	oldImage := constant.Empty

	err = s.tx.WithinTx(ctx, "room.update", func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.lockRoom(ctx, sqltx, id)
		if err != nil {
			return err
		}

		room = req.Merge(current)
		if !room.RatesConsistent() {
			return ratesError()
		}

		fields := shared.TransformFields(req, caller.SubjectID)
		if imageURL != constant.Empty {
			fields[model.FieldImage] = imageURL
			oldImage = current.Image
			room.Image = imageURL
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, byRoomID(id)); err != nil {
			log.Error().Err(err).Msg("failed to update room")

			return fmt.Errorf("failed to update room: %w", err)
		}

		room.ModifiedAt = timezone.Now()
		room.ModifiedBy = caller.SubjectID

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.invalidate(ctx, id)
			s.deleteImage(ctx, oldImage)
		})

		return nil
	})
	if err != nil {
		s.deleteImage(context.WithoutCancel(ctx), imageURL)

		if shared.PqErrorCode(err) == constant.PqErrorCodeUniqueViolation {
			return res, failure.Conflict("room number already exists") // nolint:wrapcheck
		}

		return res, err //nolint:wrapcheck
	}

	res.FromModel(room)

	return res, nil
}

// UpdateStatus moves a room in or out of maintenance. Taking a room out of service is refused while
// it still has active bookings, and bringing it back recomputes the status from its bookings.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, caller identity.Identity) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return res, failure.Forbidden("only staff can manage rooms") // nolint:wrapcheck
	}

	if req.Status != model.StatusAvailable && req.Status != model.StatusMaintenance {
		return res, failure.Validation("status must be Available or Maintenance", "status") // nolint:wrapcheck
	}

	var room model.Room

	err = s.tx.WithinTx(ctx, "room.status", func(ctx context.Context, sqltx *sqlx.Tx) error {
		current, err := s.lockRoom(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if req.Status == model.StatusMaintenance {
			if err = s.guard.EnsureReleasable(ctx, sqltx, id); err != nil {
				return err //nolint:wrapcheck
			}
		}

		fields := map[string]any{
			model.FieldStatus:       req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: caller.SubjectID,
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, byRoomID(id)); err != nil {
			log.Error().Err(err).Msg("failed to update room status")

			return fmt.Errorf("failed to update room status: %w", err)
		}

		room = current
		room.Status = req.Status

		if req.Status == model.StatusAvailable {
			status, err := s.guard.SyncRoomStatus(ctx, sqltx, id)
			if err != nil {
				return fmt.Errorf("failed to sync room status: %w", err)
			}

			room.Status = status
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.invalidate(ctx, id)
		})

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Info().Str("room_id", id).Str("status", room.Status).Msg("room status changed")

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string, caller identity.Identity) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return failure.Forbidden("only staff can manage rooms") // nolint:wrapcheck
	}

	err = s.tx.WithinTx(ctx, "room.delete", func(ctx context.Context, sqltx *sqlx.Tx) error {
		room, err := s.lockRoom(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if err = s.guard.EnsureReleasable(ctx, sqltx, id); err != nil {
			return err //nolint:wrapcheck
		}

		if err = s.repo.DeleteTx(ctx, sqltx, byRoomID(id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room")

			return fmt.Errorf("failed to delete room: %w", err)
		}

		transaction.OnCommit(ctx, func(ctx context.Context) {
			s.invalidate(ctx, id)
			s.deleteImage(ctx, room.Image)
		})

		return nil
	})
	if err != nil {
		if shared.PqErrorCode(err) == constant.PqErrorCodeFkViolation {
			return failure.Conflict("room still has booking history") // nolint:wrapcheck
		}

		return err //nolint:wrapcheck
	}

	log.Info().Str("room_id", id).Msg("room deleted")

	return nil
}

func (s *serviceImpl) ActiveBookings(ctx context.Context, id string, caller identity.Identity) (res []availability.BlockingBooking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ActiveBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !caller.IsStaff() {
		return nil, failure.Forbidden("only staff can view room bookings") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, byRoomID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room")

		return nil, fmt.Errorf("failed to check room: %w", err)
	}

	if !exist {
		return nil, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res, err = s.guard.ActiveBookings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}

	return res, nil
}
