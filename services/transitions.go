package services

import (
	"slices"
	"waitfaster_server/structs/tables"
)

var orderTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusOrdered:    {tables.OrderStatusPreparing, tables.OrderStatusCancelled},
	tables.OrderStatusPreparing:  {tables.OrderStatusReady, tables.OrderStatusOrdered},
	tables.OrderStatusReady:      {tables.OrderStatusDelivering, tables.OrderStatusPreparing},
	tables.OrderStatusDelivering: {tables.OrderStatusReady, tables.OrderStatusDelivered},
	tables.OrderStatusCancelled: {
		tables.OrderStatusOrdered,
		tables.OrderStatusPreparing,
		tables.OrderStatusReady,
		tables.OrderStatusDelivering,
	},
	tables.OrderStatusDelivered: {},
}

var assistanceTransitions = map[tables.AssistanceRequestStatus][]tables.AssistanceRequestStatus{
	tables.AssistanceRequestStatusOpen:     {tables.AssistanceRequestStatusHandling, tables.AssistanceRequestStatusCancelled},
	tables.AssistanceRequestStatusHandling: {tables.AssistanceRequestStatusOpen, tables.AssistanceRequestStatusClosed},
	tables.AssistanceRequestStatusClosed:   {},
}

// CanTransitionOrder reports whether an order item may move from one status to another.
func CanTransitionOrder(from, to tables.OrderStatus) bool {
	return slices.Contains(orderTransitions[from], to)
}

// CanTransitionAssistance reports whether an assistance request may move from one status to another.
func CanTransitionAssistance(from, to tables.AssistanceRequestStatus) bool {
	return slices.Contains(assistanceTransitions[from], to)
}

// RollupOrderStatus returns the status shared by every item, or current
// when the items disagree.
func RollupOrderStatus(items []tables.OrderItem, current tables.OrderStatus) tables.OrderStatus {
	if len(items) == 0 {
		return current
	}

	first := items[0].Status
	for _, item := range items[1:] {
		if item.Status != first {
			return current
		}
	}
	return first
}
