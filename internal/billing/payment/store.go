// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import "context"

// Repository defines the persistence contract for payments.
type Repository interface {

	// Create stores a new pending payment.
	Create(context context.Context, payment *Payment) error

	/*
		FindByID loads a stored payment.

		Returns:
		  - error: NOT_FOUND for a payment this service never created
	*/
	FindByID(context context.Context, id string) (*Payment, error)

	/*
		Settle moves a payment to status and, for [StatusSucceeded], credits
		its coins in the same transaction. Final payments are left untouched.

		Returns:
		  - bool: true when coins were credited by this call
	*/
	Settle(context context.Context, id string, status Status) (bool, error)
}
