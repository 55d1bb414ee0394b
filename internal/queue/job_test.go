package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReblockJob(t *testing.T) {
	t.Parallel()

	job := NewReblockJob("reddit.com")

	if job.ID == uuid.Nil {
		t.Error("Expected job ID to be set")
	}
	if job.Type != JobTypeReblockSite {
		t.Errorf("Expected job type to be %s, got %s", JobTypeReblockSite, job.Type)
	}
	if job.Domain != "reddit.com" {
		t.Errorf("Expected domain to be reddit.com, got %s", job.Domain)
	}
	if job.NotBefore == nil {
		t.Fatal("Expected NotBefore to be set")
	}
	delay := time.Until(*job.NotBefore)
	if delay < BypassWindow-time.Second || delay > BypassWindow {
		t.Errorf("Expected NotBefore about %v out, got %v", BypassWindow, delay)
	}
	if job.RetryCount != 0 {
		t.Errorf("Expected retry count to be 0, got %d", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("Expected max retries to be 3, got %d", job.MaxRetries)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no time constraints",
			job: &Job{
				ID:   uuid.New(),
				Type: JobTypeReblockSite,
			},
			want: true,
		},
		{
			name: "not before in past",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeReblockSite,
				NotBefore: timePtr(now.Add(-1 * time.Hour)),
			},
			want: true,
		},
		{
			name: "not before in future",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeReblockSite,
				NotBefore: timePtr(now.Add(1 * time.Hour)),
			},
			want: false,
		},
		{
			name: "not after in past",
			job: &Job{
				ID:       uuid.New(),
				Type:     JobTypeReblockSite,
				NotAfter: timePtr(now.Add(-1 * time.Hour)),
			},
			want: false,
		},
		{
			name: "not after in future",
			job: &Job{
				ID:       uuid.New(),
				Type:     JobTypeReblockSite,
				NotAfter: timePtr(now.Add(1 * time.Hour)),
			},
			want: true,
		},
		{
			name: "within time window",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeReblockSite,
				NotBefore: timePtr(now.Add(-1 * time.Hour)),
				NotAfter:  timePtr(now.Add(1 * time.Hour)),
			},
			want: true,
		},
		{
			name: "outside time window - before",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeReblockSite,
				NotBefore: timePtr(now.Add(1 * time.Hour)),
				NotAfter:  timePtr(now.Add(2 * time.Hour)),
			},
			want: false,
		},
		{
			name: "outside time window - after",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeReblockSite,
				NotBefore: timePtr(now.Add(-2 * time.Hour)),
				NotAfter:  timePtr(now.Add(-1 * time.Hour)),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.job.ShouldProcess()
			if got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no expiration",
			job:  &Job{ID: uuid.New(), Type: JobTypeReblockSite},
			want: false,
		},
		{
			name: "expired",
			job:  &Job{ID: uuid.New(), Type: JobTypeReblockSite, NotAfter: timePtr(now.Add(-1 * time.Hour))},
			want: true,
		},
		{
			name: "not expired",
			job:  &Job{ID: uuid.New(), Type: JobTypeReblockSite, NotAfter: timePtr(now.Add(1 * time.Hour))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.job.IsExpired()
			if got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_CanRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{name: "no retries yet", retryCount: 0, maxRetries: 3, want: true},
		{name: "one retry", retryCount: 1, maxRetries: 3, want: true},
		{name: "max retries minus one", retryCount: 2, maxRetries: 3, want: true},
		{name: "at max retries", retryCount: 3, maxRetries: 3, want: false},
		{name: "exceeded max retries", retryCount: 4, maxRetries: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			job := &Job{
				ID:         uuid.New(),
				Type:       JobTypeReblockSite,
				RetryCount: tt.retryCount,
				MaxRetries: tt.maxRetries,
			}
			got := job.CanRetry()
			if got != tt.want {
				t.Errorf("CanRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IncrementRetry(t *testing.T) {
	t.Parallel()

	job := &Job{ID: uuid.New(), Type: JobTypeReblockSite, MaxRetries: 3}

	for want := 1; want <= 3; want++ {
		job.IncrementRetry()
		if job.RetryCount != want {
			t.Errorf("Expected retry count to be %d after increment, got %d", want, job.RetryCount)
		}
	}
}

func TestEarlyRequeueWait(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		min  time.Duration
		max  time.Duration
	}{
		{
			name: "far-future delay capped",
			job:  &Job{NotBefore: timePtr(now.Add(BypassWindow))},
			min:  earlyRequeueDelay,
			max:  earlyRequeueDelay,
		},
		{
			name: "almost due waits only the remainder",
			job:  &Job{NotBefore: timePtr(now.Add(time.Second))},
			min:  0,
			max:  time.Second,
		},
		{
			name: "already due",
			job:  &Job{NotBefore: timePtr(now.Add(-time.Second))},
			min:  0,
			max:  0,
		},
		{
			name: "no not-before",
			job:  &Job{},
			min:  earlyRequeueDelay,
			max:  earlyRequeueDelay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := earlyRequeueWait(tt.job)
			if got < tt.min || got > tt.max {
				t.Errorf("earlyRequeueWait() = %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

// Helper function to create time pointers
func timePtr(t time.Time) *time.Time {
	return &t
}
