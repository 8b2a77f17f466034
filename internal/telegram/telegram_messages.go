package telegram

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/leave"
	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	"github.com/Muhannad-Khaled/Ailigent/internal/policy"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/langutil"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
)

// amounts keeps monetary figures in western digits with grouping for both
// languages.
var amounts = message.NewPrinter(language.English)

type botText struct {
	en string
	ar string
}

var messages = map[string]botText{
	"welcome": {
		en: `👋 *Welcome to Ailigent!*

I'm your intelligent employee assistant. I can help you with:
• Leave balance and requests
• Payslip information
• Attendance tracking
• Task management
• Company policies
• Daily work summaries

*Quick Commands:*
/link - Link your Telegram account
/help - Show all commands

Let's get started! Use /link to connect your employee account.`,
		ar: `👋 *مرحباً بك في أيليجنت!*

أنا مساعدك الذكي للموظفين. يمكنني مساعدتك في:
• رصيد الإجازات والطلبات
• معلومات كشف الراتب
• متابعة الحضور والانصراف
• إدارة المهام
• سياسات الشركة
• ملخصات العمل اليومية

*الأوامر السريعة:*
/link - ربط حسابك
/help - عرض جميع الأوامر

لنبدأ! استخدم /link لربط حساب الموظف الخاص بك.`,
	},
	"welcome_linked": {
		en: "👋 *Welcome back, %s!*\n\nHow can I help you today? Type your question or use /help to see available commands.",
		ar: "👋 *أهلاً بعودتك، %s!*\n\nكيف يمكنني مساعدتك اليوم؟ اكتب سؤالك أو استخدم /help لعرض الأوامر المتاحة.",
	},
	"help": {
		en: `📚 *Available Commands*

*Account:*
/start - Start the bot
/link - Link your Telegram to employee account
/unlink - Unlink your account

*Information:*
/leave - View leave balance and requests
/payslip - View recent payslips
/attendance - View attendance summary
/tasks - View your tasks
/summary - Get daily work summary
/policy - Search company policies

/help - Show this help message
/cancel - Cancel current operation

You can also just type your question and I'll help you!`,
		ar: `📚 *الأوامر المتاحة*

*الحساب:*
/start - بدء البوت
/link - ربط حسابك بحساب الموظف
/unlink - إلغاء ربط حسابك

*المعلومات:*
/leave - عرض رصيد الإجازات والطلبات
/payslip - عرض كشوف الرواتب الأخيرة
/attendance - عرض ملخص الحضور
/tasks - عرض مهامك
/summary - الحصول على ملخص العمل اليومي
/policy - البحث في سياسات الشركة

/help - عرض هذه المساعدة
/cancel - إلغاء العملية الحالية

يمكنك أيضاً كتابة سؤالك مباشرة وسأساعدك!`,
	},
	"not_linked": {
		en: "⚠️ Your account is not linked yet. Please use /link to connect your employee account first.",
		ar: "⚠️ حسابك غير مرتبط بعد. يرجى استخدام /link لربط حساب الموظف الخاص بك أولاً.",
	},
	"link_start": {
		en: "📧 Please enter your work email address to link your account:",
		ar: "📧 يرجى إدخال بريدك الإلكتروني الخاص بالعمل لربط حسابك:",
	},
	"link_email_not_found": {
		en: "❌ No employee found with this email. Please check and try again, or contact HR.",
		ar: "❌ لم يتم العثور على موظف بهذا البريد الإلكتروني. يرجى التحقق والمحاولة مرة أخرى، أو التواصل مع الموارد البشرية.",
	},
	"link_otp_sent": {
		en: "✅ A verification code has been sent to your email.\n\n📬 Please enter the 6-digit code:",
		ar: "✅ تم إرسال رمز التحقق إلى بريدك الإلكتروني.\n\n📬 يرجى إدخال الرمز المكون من 6 أرقام:",
	},
	"link_otp_invalid": {
		en: "❌ Invalid code. Please try again or use /cancel to start over.",
		ar: "❌ رمز غير صحيح. يرجى المحاولة مرة أخرى أو استخدام /cancel للبدء من جديد.",
	},
	"link_otp_expired": {
		en: "⏰ The verification code has expired. Please use /link to start again.",
		ar: "⏰ انتهت صلاحية رمز التحقق. يرجى استخدام /link للبدء مرة أخرى.",
	},
	"link_success": {
		en: "🎉 *Account linked successfully!*\n\nWelcome, %s! You can now use all features. Type /help to see available commands.",
		ar: "🎉 *تم ربط الحساب بنجاح!*\n\nأهلاً بك، %s! يمكنك الآن استخدام جميع الميزات. اكتب /help لعرض الأوامر المتاحة.",
	},
	"link_already": {
		en: "✅ Your account is already linked. Use /unlink if you want to disconnect.",
		ar: "✅ حسابك مرتبط بالفعل. استخدم /unlink إذا كنت تريد إلغاء الربط.",
	},
	"unlink_confirm": {
		en: "Are you sure you want to unlink your account?",
		ar: "هل أنت متأكد من إلغاء ربط حسابك؟",
	},
	"unlink_success": {
		en: "✅ Your account has been unlinked successfully.",
		ar: "✅ تم إلغاء ربط حسابك بنجاح.",
	},
	"cancelled": {
		en: "❌ Operation cancelled.",
		ar: "❌ تم إلغاء العملية.",
	},
	"no_leave_balance": {
		en: "📋 No leave allocations found.",
		ar: "📋 لم يتم العثور على مخصصات إجازات.",
	},
	"no_payslips": {
		en: "📋 No payslips found.",
		ar: "📋 لم يتم العثور على كشوف رواتب.",
	},
	"no_attendance": {
		en: "📋 No attendance records for this month.",
		ar: "📋 لا توجد سجلات حضور لهذا الشهر.",
	},
	"no_tasks": {
		en: "📋 No tasks assigned to you.",
		ar: "📋 لا توجد مهام مسندة إليك.",
	},
	"no_policies": {
		en: "📋 No policies found.",
		ar: "📋 لم يتم العثور على سياسات.",
	},
	"summary_wait": {
		en: "⏳ Generating your daily summary...",
		ar: "⏳ جاري إنشاء ملخصك اليومي...",
	},
	"error": {
		en: "❌ An error occurred. Please try again later.",
		ar: "❌ حدث خطأ. يرجى المحاولة لاحقاً.",
	},
}

func msg(key, lang string) string {
	t, ok := messages[key]
	if !ok {
		return ""
	}
	if lang == langutil.Arabic {
		return t.ar
	}
	return t.en
}

func msgf(key, lang string, args ...any) string {
	return fmt.Sprintf(msg(key, lang), args...)
}

func formatLeaveBalances(balances []leave.BalanceResponse, lang string) string {
	var b strings.Builder
	if lang == langutil.Arabic {
		b.WriteString("📊 *رصيد إجازاتك:*\n\n")
		for _, bal := range balances {
			fmt.Fprintf(&b, "*%s*\n", bal.LeaveType)
			fmt.Fprintf(&b, "  • المخصص: %.1f يوم\n", bal.Allocated)
			fmt.Fprintf(&b, "  • المستخدم: %.1f يوم\n", bal.Taken)
			fmt.Fprintf(&b, "  • المتبقي: %.1f يوم\n\n", bal.Remaining)
		}
		return b.String()
	}

	b.WriteString("📊 *Your Leave Balance:*\n\n")
	for _, bal := range balances {
		fmt.Fprintf(&b, "*%s*\n", bal.LeaveType)
		fmt.Fprintf(&b, "  • Allocated: %.1f days\n", bal.Allocated)
		fmt.Fprintf(&b, "  • Taken: %.1f days\n", bal.Taken)
		fmt.Fprintf(&b, "  • Remaining: %.1f days\n\n", bal.Remaining)
	}
	return b.String()
}

func formatPayslips(payslips []payroll.PayslipResponse, lang string) string {
	var b strings.Builder
	if lang == langutil.Arabic {
		b.WriteString("💰 *كشوف الرواتب الأخيرة:*\n\n")
		for _, ps := range payslips {
			fmt.Fprintf(&b, "*%s*\n", ps.Name)
			fmt.Fprintf(&b, "  • الفترة: %s - %s\n", ps.DateFrom, ps.DateTo)
			fmt.Fprintf(&b, "  • الصافي: %s\n", amounts.Sprintf("%.2f", ps.NetWage))
			fmt.Fprintf(&b, "  • الحالة: %s\n\n", ps.State)
		}
		return b.String()
	}

	b.WriteString("💰 *Recent Payslips:*\n\n")
	for _, ps := range payslips {
		fmt.Fprintf(&b, "*%s*\n", ps.Name)
		fmt.Fprintf(&b, "  • Period: %s - %s\n", ps.DateFrom, ps.DateTo)
		fmt.Fprintf(&b, "  • Net: %s\n", amounts.Sprintf("%.2f", ps.NetWage))
		fmt.Fprintf(&b, "  • Status: %s\n\n", ps.State)
	}
	return b.String()
}

func formatAttendance(summary attendance.MonthlySummaryResponse, lang string) string {
	var b strings.Builder
	if lang == langutil.Arabic {
		fmt.Fprintf(&b, "📅 *ملخص الحضور - %d/%d*\n\n", summary.Month, summary.Year)
		fmt.Fprintf(&b, "• إجمالي أيام العمل: %d\n", summary.TotalDays)
		fmt.Fprintf(&b, "• إجمالي ساعات العمل: %.1f\n", summary.TotalHours)
		return b.String()
	}

	fmt.Fprintf(&b, "📅 *Attendance Summary - %d/%d*\n\n", summary.Month, summary.Year)
	fmt.Fprintf(&b, "• Total working days: %d\n", summary.TotalDays)
	fmt.Fprintf(&b, "• Total working hours: %.1f\n", summary.TotalHours)
	return b.String()
}

func formatTasks(tasks []task.TaskResponse, lang string) string {
	var b strings.Builder
	notSet := "Not set"
	if lang == langutil.Arabic {
		b.WriteString("📋 *مهامك:*\n\n")
		notSet = "غير محدد"
	} else {
		b.WriteString("📋 *Your Tasks:*\n\n")
	}

	for i, t := range tasks {
		deadline := t.Deadline
		if deadline == "" {
			deadline = notSet
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, t.Name)
		if lang == langutil.Arabic {
			fmt.Fprintf(&b, "   المرحلة: %s\n", t.StageName)
			fmt.Fprintf(&b, "   الموعد النهائي: %s\n\n", deadline)
		} else {
			fmt.Fprintf(&b, "   Stage: %s\n", t.StageName)
			fmt.Fprintf(&b, "   Deadline: %s\n\n", deadline)
		}
	}
	return b.String()
}

func formatPolicies(docs []policy.Document, lang string) string {
	var b strings.Builder
	if lang == langutil.Arabic {
		b.WriteString("📜 *سياسات الشركة:*\n\n")
		for i, d := range docs {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d.Name)
		}
		b.WriteString("\nاسألني عن أي سياسة للحصول على تفاصيل!")
		return b.String()
	}

	b.WriteString("📜 *Company Policies:*\n\n")
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Name)
	}
	b.WriteString("\nAsk me about any policy for details!")
	return b.String()
}

func commandMenu() []BotCommand {
	return []BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "Show available commands"},
		{Command: "link", Description: "Link your employee account"},
		{Command: "unlink", Description: "Unlink your account"},
		{Command: "leave", Description: "View leave balance"},
		{Command: "payslip", Description: "View recent payslips"},
		{Command: "attendance", Description: "View attendance summary"},
		{Command: "tasks", Description: "View your tasks"},
		{Command: "summary", Description: "Get a daily work summary"},
		{Command: "policy", Description: "List company policies"},
		{Command: "cancel", Description: "Cancel the current operation"},
	}
}
