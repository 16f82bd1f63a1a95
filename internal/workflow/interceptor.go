package workflow

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/temporal"
)

// ActivityErrorInterceptor gives untyped activity errors the activity name
// as their ApplicationError type so failures are searchable in the Temporal
// UI. Errors that already carry a type pass through unchanged.
type ActivityErrorInterceptor struct {
	interceptor.WorkerInterceptorBase
}

func (i *ActivityErrorInterceptor) InterceptActivity(
	ctx context.Context,
	next interceptor.ActivityInboundInterceptor,
) interceptor.ActivityInboundInterceptor {
	a := &activityErrorInbound{}
	a.Next = next
	return a
}

type activityErrorInbound struct {
	interceptor.ActivityInboundInterceptorBase
}

func (a *activityErrorInbound) ExecuteActivity(
	ctx context.Context,
	in *interceptor.ExecuteActivityInput,
) (interface{}, error) {
	result, err := a.Next.ExecuteActivity(ctx, in)
	return result, typedActivityError(activity.GetInfo(ctx).ActivityType.Name, err)
}

func typedActivityError(activityName string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() != "" {
		return err
	}
	return temporal.NewApplicationError(err.Error(), activityName, err)
}
