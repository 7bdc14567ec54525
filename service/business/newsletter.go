package business

import (
	"context"
	"fmt"
	"time"

	"github.com/antinvestor/service-catalogue/config"
	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/antinvestor/service-catalogue/service/utils"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/data"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SubscribeRequest registers or reactivates a newsletter signup.
type SubscribeRequest struct {
	Email        string
	Name         string
	CompanyName  string
	PhoneNumber  string
	City         string
	Source       string
	OriginIP     string
	OriginClient string
}

type SubscribeResult struct {
	SubscriberID string
	Reactivated  bool
}

type NewsletterService interface {
	Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscribeResult, error)
	Unsubscribe(ctx context.Context, token string) error
	SetSubscriberStatus(ctx context.Context, id string, active bool) (*models.NewsletterSubscriber, error)
}

func NewNewsletterService(service *frame.Service, cfg *config.CatalogueConfig) NewsletterService {
	return &newsletterService{
		subscriberRepo: repository.NewSubscriberRepository(service),
		dispatcher:     NewDispatcher(service, cfg),
	}
}

type newsletterService struct {
	subscriberRepo repository.SubscriberRepository
	dispatcher     *Dispatcher
}

func (ns *newsletterService) Subscribe(ctx context.Context, req *SubscribeRequest) (*SubscribeResult, error) {
	if !emailPattern.MatchString(req.Email) {
		return nil, ErrValidationFailed
	}

	source := req.Source
	if source == "" {
		source = "app"
	}

	existing, err := ns.subscriberRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Active {
			return nil, ErrAlreadySubscribed
		}

		// Reactivate the old row instead of creating a duplicate.
		existing.Active = true
		existing.UnsubscribedAt = nil
		if req.Name != "" {
			existing.Name = req.Name
		}
		if req.CompanyName != "" {
			existing.CompanyName = req.CompanyName
		}
		if req.PhoneNumber != "" {
			existing.PhoneNumber = req.PhoneNumber
		}
		if req.City != "" {
			existing.City = req.City
		}
		existing.Source = source

		err = ns.subscriberRepo.Save(ctx, existing)
		if err != nil {
			return nil, err
		}

		ns.notify(ctx, "Newsletter Re-subscription",
			fmt.Sprintf("%s has re-subscribed to newsletter", req.Email), req)

		return &SubscribeResult{SubscriberID: existing.GetID(), Reactivated: true}, nil
	}

	subscriber := &models.NewsletterSubscriber{
		Email:            req.Email,
		Name:             req.Name,
		CompanyName:      req.CompanyName,
		PhoneNumber:      req.PhoneNumber,
		City:             req.City,
		Source:           source,
		Active:           true,
		UnsubscribeToken: utils.GenerateRandomString(32),
	}
	subscriber.GenID(ctx)

	err = ns.subscriberRepo.Save(ctx, subscriber)
	if err != nil {
		return nil, err
	}

	ns.notify(ctx, "New Newsletter Subscription",
		fmt.Sprintf("%s has subscribed to newsletter", req.Email), req)

	return &SubscribeResult{SubscriberID: subscriber.GetID()}, nil
}

func (ns *newsletterService) notify(ctx context.Context, title, message string, req *SubscribeRequest) {
	ns.dispatcher.saveNotification(ctx, &models.Notification{
		Title:    title,
		Message:  message,
		Kind:     models.NotificationNewsletterSignup,
		Priority: models.PriorityLow,
		Data: data.JSONMap{
			"email":       req.Email,
			"name":        req.Name,
			"companyName": req.CompanyName,
			"city":        req.City,
		},
	})

	ns.dispatcher.LogActivity(ctx, models.ActivityNewsletterSubscribe, "",
		map[string]any{"email": req.Email}, req.OriginIP, req.OriginClient)
}

func (ns *newsletterService) Unsubscribe(ctx context.Context, token string) error {
	subscriber, err := ns.subscriberRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	now := time.Now()
	subscriber.Active = false
	subscriber.UnsubscribedAt = &now

	err = ns.subscriberRepo.Save(ctx, subscriber)
	if err != nil {
		return err
	}

	ns.dispatcher.LogActivity(ctx, models.ActivityNewsletterUnsubscribe, "",
		map[string]any{"email": subscriber.Email}, "", "")

	return nil
}

// SetSubscriberStatus lets an operator flip a subscription without the
// unsubscribe token. Deactivation stamps UnsubscribedAt the same way a
// self service unsubscribe does.
func (ns *newsletterService) SetSubscriberStatus(ctx context.Context, id string, active bool) (*models.NewsletterSubscriber, error) {
	subscriber, err := ns.subscriberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}

	subscriber.Active = active
	if active {
		subscriber.UnsubscribedAt = nil
	} else {
		now := time.Now()
		subscriber.UnsubscribedAt = &now
	}

	err = ns.subscriberRepo.Save(ctx, subscriber)
	if err != nil {
		return nil, err
	}

	return subscriber, nil
}
