package shop

const (
	textChooseProduct   = "Пожалуйста выберите:"
	textAddedToCart     = "Добавлен в корзину"
	textRemovedFromCart = "Продукт убран из корзины"
	textCartHeader      = "Товары в корзине:"
	textCartEmpty       = "Корзина пуста"
	textAskEmail        = "Введите вашу почту"
	textBadEmail        = "Некорректная почта.\nВведите почту в формате: user@mail.ru"
	textCheckEmail      = "Проверьте правильность почты:\n%s"
	textThanks          = "Спасибо за заказ!\nОжидайте подтверждения по почте!"
	textLastPage        = "Это последняя страница"
	textFirstPage       = "Вы в начале"
	textUnavailable     = "Сервис временно недоступен, попробуйте ещё раз"
	textNotAvailable    = "Действие сейчас недоступно"
	textProductMissing  = "Товар больше не доступен"
	textUseButtons      = "Воспользуйтесь кнопками меню или командой /start"

	buttonAddToCart = "Добавить в корзину"
	buttonBack      = "Назад"
	buttonMyCart    = "Моя корзина 🛍"
	buttonNext      = "Следующая"
	buttonRemove    = "Убрать %s"
	buttonPay       = "Оплатить"
	buttonMenu      = "В меню"

	answerYes = "Да"
	answerFix = "Исправить"
)
