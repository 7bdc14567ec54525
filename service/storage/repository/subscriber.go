package repository

import (
	"context"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/pitabwire/frame"
)

type SubscriberRepository interface {
	GetByID(ctx context.Context, id string) (*models.NewsletterSubscriber, error)
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	GetByToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error)
	Save(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	List(ctx context.Context, page int, limit int) ([]*models.NewsletterSubscriber, int64, error)
	ListAll(ctx context.Context) ([]*models.NewsletterSubscriber, error)
	Count(ctx context.Context, onlyActive bool) (int64, error)
}

func NewSubscriberRepository(service *frame.Service) SubscriberRepository {
	return &subscriberRepository{service: service}
}

type subscriberRepository struct {
	service *frame.Service
}

func (sr *subscriberRepository) GetByID(ctx context.Context, id string) (*models.NewsletterSubscriber, error) {
	subscriber := &models.NewsletterSubscriber{}
	err := sr.service.DB(ctx, true).First(subscriber, " id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return subscriber, nil
}

func (sr *subscriberRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	subscriber := &models.NewsletterSubscriber{}
	err := sr.service.DB(ctx, true).First(subscriber, " email = ?", email).Error
	if err != nil {
		return nil, err
	}

	return subscriber, nil
}

func (sr *subscriberRepository) GetByToken(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	subscriber := &models.NewsletterSubscriber{}
	err := sr.service.DB(ctx, true).First(subscriber, " unsubscribe_token = ?", token).Error
	if err != nil {
		return nil, err
	}

	return subscriber, nil
}

func (sr *subscriberRepository) Save(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return sr.service.DB(ctx, false).Save(subscriber).Error
}

func (sr *subscriberRepository) List(ctx context.Context, page int, limit int) ([]*models.NewsletterSubscriber, int64, error) {
	subscribers := make([]*models.NewsletterSubscriber, 0)

	tx := sr.service.DB(ctx, true).Model(&models.NewsletterSubscriber{})

	var total int64
	err := tx.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = tx.Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&subscribers).Error
	if err != nil {
		return nil, 0, err
	}

	return subscribers, total, nil
}

func (sr *subscriberRepository) ListAll(ctx context.Context) ([]*models.NewsletterSubscriber, error) {
	subscribers := make([]*models.NewsletterSubscriber, 0)
	err := sr.service.DB(ctx, true).
		Order("created_at DESC").
		Find(&subscribers).Error
	if err != nil {
		return nil, err
	}

	return subscribers, nil
}

func (sr *subscriberRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	var total int64
	tx := sr.service.DB(ctx, true).Model(&models.NewsletterSubscriber{})
	if onlyActive {
		tx = tx.Where("active = ?", true)
	}
	err := tx.Count(&total).Error
	return total, err
}
