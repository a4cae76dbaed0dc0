package domain

// NotifyMessage 是投递到 notify_queue 的消息信封
type NotifyMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

// BaselineAppliedData 是基线提交成功后通知邮件所需的数据
type BaselineAppliedData struct {
	OrgID           int64  `json:"orgID"`
	PlannerName     string `json:"plannerName"`
	StartDate       string `json:"startDate"`
	AssignmentCount int    `json:"assignmentCount"`
	WindowCount     int    `json:"windowCount"`
}
