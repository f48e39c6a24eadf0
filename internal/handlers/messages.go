package handlers

// User-facing messages, in Arabic like the storefront itself. Log lines stay
// in English.
const (
	msgBadRequestBody     = "صيغة الطلب غير صحيحة"
	msgInternalError      = "حدث خطأ أثناء إنشاء الطلب، يرجى المحاولة مرة أخرى"
	msgOrderNotFound      = "لم يتم العثور على الطلب"
	msgProductNotFound    = "المنتج %s لم يعد متوفراً"
	msgProductUnavailable = "عذراً، المنتج %s غير متوفر حالياً"
	msgOutOfStock         = "عذراً، الكمية المتوفرة من %s هي %d فقط"

	msgCouponInvalid   = "كود الخصم غير صالح"
	msgCouponExpired   = "انتهت صلاحية كود الخصم"
	msgCouponExhausted = "تم استنفاد مرات استخدام هذا الكود"
	msgCouponMinOrder  = "قيمة الطلب أقل من الحد الأدنى لاستخدام الكود"
)

// invalidFieldMessages maps a rejected request field to its message.
var invalidFieldMessages = map[string]string{
	"customer_name":      "يرجى إدخال الاسم",
	"customer_phone":     "يرجى إدخال رقم الهاتف",
	"customer_address":   "يرجى إدخال العنوان",
	"governorate":        "يرجى اختيار المحافظة",
	"payment_method":     "يرجى اختيار طريقة الدفع",
	"items":              "سلة التسوق فارغة",
	"items.product_name": "الطلب يحتوي على عنصر بدون اسم",
	"items.quantity":     "الكمية المطلوبة غير صالحة",
	"order_number":       "يرجى إدخال رقم الطلب",
	"phone":              "يرجى إدخال رقم الهاتف",
}

func invalidFieldMessage(field string) string {
	if msg, ok := invalidFieldMessages[field]; ok {
		return msg
	}
	return msgBadRequestBody
}
