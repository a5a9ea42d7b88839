package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// StorageProbe pings the durable storage backend. Nil means nothing to ping.
type StorageProbe func(ctx context.Context) error

type healthUsecase struct {
	driver string
	probe  StorageProbe
}

func NewHealthUsecase(driver string, probe StorageProbe) HealthUsecase {
	return &healthUsecase{driver: driver, probe: probe}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status":  "ok",
		"storage": u.driver,
	}
	if u.probe != nil {
		if err := u.probe(ctx); err != nil {
			result["status"] = "degraded"
			result["storage_error"] = err.Error()
		}
	}
	return result
}
